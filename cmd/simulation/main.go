package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/fatih/color"
)

const baseURL = "http://localhost:3000/api/papers/v1"

// Simplified DTOs for the script
type submitRequest struct {
	ArxivId   string `json:"arxiv_id"`
	UserQuery string `json:"user_query,omitempty"`
}

type submitResponse struct {
	Data struct {
		JobId  string `json:"job_id"`
		Status string `json:"status"`
	} `json:"data"`
}

type statusResponse struct {
	Data struct {
		JobId        string  `json:"job_id"`
		Status       string  `json:"status"`
		CurrentStage *string `json:"current_stage"`
		ErrorMessage *string `json:"error_message"`
		Result       *struct {
			Digest       string   `json:"digest"`
			PostThread   []string `json:"post_thread"`
			NoveltyScore float64  `json:"novelty_score"`
			TokensUsed   int      `json:"tokens_used"`
		} `json:"result"`
	} `json:"data"`
}

func main() {
	arxivId := "1706.03762" // Attention Is All You Need
	if len(os.Args) > 1 {
		arxivId = os.Args[1]
	}

	color.Cyan("=== Paper Digest Simulation Client ===")
	fmt.Printf("Submitting arXiv paper: %s\n", arxivId)

	jobId, err := submit(arxivId)
	if err != nil {
		log.Fatalf("Failed to submit job: %v", err)
	}
	color.Green("Job queued: %s", jobId)

	start := time.Now()
	for {
		time.Sleep(3 * time.Second)

		st, err := status(jobId)
		if err != nil {
			log.Fatalf("Failed to poll status: %v", err)
		}

		stage := "-"
		if st.Data.CurrentStage != nil {
			stage = *st.Data.CurrentStage
		}
		fmt.Printf("[%6.1fs] status=%s stage=%s\n", time.Since(start).Seconds(), st.Data.Status, stage)

		switch st.Data.Status {
		case "completed":
			color.Green("\n✅ Completed in %v", time.Since(start).Round(time.Second))
			if r := st.Data.Result; r != nil {
				fmt.Printf("Novelty score: %.2f | Tokens used: %d\n", r.NoveltyScore, r.TokensUsed)
				color.Yellow("\n--- Digest ---")
				fmt.Println(r.Digest)
				color.Yellow("\n--- Post Thread (%d posts) ---", len(r.PostThread))
				for _, post := range r.PostThread {
					fmt.Println(post)
				}
			}
			return
		case "failed":
			msg := "unknown"
			if st.Data.ErrorMessage != nil {
				msg = *st.Data.ErrorMessage
			}
			color.Red("\n❌ Job failed: %s", msg)
			os.Exit(1)
		}
	}
}

func submit(arxivId string) (string, error) {
	jsonBytes, _ := json.Marshal(submitRequest{ArxivId: arxivId})

	resp, err := http.Post(baseURL+"/process", "application/json", bytes.NewBuffer(jsonBytes))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("API Error %d: %s", resp.StatusCode, string(body))
	}

	var res submitResponse
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return "", err
	}
	return res.Data.JobId, nil
}

func status(jobId string) (*statusResponse, error) {
	resp, err := http.Get(baseURL + "/jobs/" + jobId)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API Error %d: %s", resp.StatusCode, string(body))
	}

	var res statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return nil, err
	}
	return &res, nil
}
