package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"
)

// Walks the tracker API end to end against a running instance: mint a
// session, submit a query, then watch the view until the job settles.
func main() {
	baseURL := flag.String("url", "http://localhost:8080", "tracker base URL")
	apiKey := flag.String("key", "", "configured web api_key")
	query := flag.String("query", "Chopin, 5", "freeform search input")
	flag.Parse()

	client := &http.Client{Timeout: 10 * time.Second}

	// 1. Exchange the API key for a session token
	token, err := mintSession(client, *baseURL, *apiKey)
	if err != nil {
		log.Fatalf("session error: %v", err)
	}
	log.Printf("session minted")

	// 2. Submit the query
	job, err := submit(client, *baseURL, token, *query)
	if err != nil {
		log.Fatalf("submit error: %v", err)
	}
	log.Printf("submitted job %s (keyword=%q articles=%d)", job["id"], job["keyword"], int(job["article_count"].(float64)))

	// 3. Watch the view until the current job reaches a terminal state
	for i := 0; i < 60; i++ {
		time.Sleep(2 * time.Second)
		view, err := fetchView(client, *baseURL, token)
		if err != nil {
			log.Fatalf("view error: %v", err)
		}
		cur, _ := view["current"].(map[string]any)
		if cur == nil {
			continue
		}
		status, _ := cur["status"].(string)
		log.Printf("current job status=%s", status)
		if status == "completed" || status == "failed" {
			out, _ := json.MarshalIndent(cur, "", "  ")
			fmt.Println(string(out))
			return
		}
	}
	log.Fatalf("job did not settle in time")
}

func mintSession(client *http.Client, base, key string) (string, error) {
	body, _ := json.Marshal(map[string]string{"api_key": key})
	resp, err := client.Post(base+"/api/v1/session", "application/json", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status %d", resp.StatusCode)
	}
	var out struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	return out.Token, nil
}

func submit(client *http.Client, base, token, text string) (map[string]any, error) {
	body, _ := json.Marshal(map[string]string{"text": text})
	req, err := http.NewRequest(http.MethodPost, base+"/api/v1/search", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusAccepted {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}
	var job map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&job); err != nil {
		return nil, err
	}
	return job, nil
}

func fetchView(client *http.Client, base, token string) (map[string]any, error) {
	req, err := http.NewRequest(http.MethodGet, base+"/api/v1/view", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}
	var view map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&view); err != nil {
		return nil, err
	}
	return view, nil
}
