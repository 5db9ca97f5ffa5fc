//go:build ignore

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/fatih/color"
)

const baseURL = "http://localhost:3000/api"

// Pretty print JSON helper
func prettyPrint(body []byte) {
	var v interface{}
	if err := json.Unmarshal(body, &v); err != nil {
		fmt.Println(string(body))
		return
	}
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
}

func sendRequest(method, url, requesterID string, body interface{}) (*http.Response, []byte, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, baseURL+url, bodyReader)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if requesterID != "" {
		req.Header.Set("X-Requester-Id", requesterID)
	}

	client := &http.Client{Timeout: 60 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	return resp, respBody, err
}

func step(title string, wantStatus int, method, url, requesterID string, body interface{}) bool {
	color.Cyan("\n=== %s ===", title)
	resp, respBody, err := sendRequest(method, url, requesterID, body)
	if err != nil {
		color.Red("❌ Request failed: %v", err)
		return false
	}
	prettyPrint(respBody)
	if resp.StatusCode != wantStatus {
		color.Red("❌ Expected status %d, got %d", wantStatus, resp.StatusCode)
		return false
	}
	color.Green("✅ Status %d (requester %s)", resp.StatusCode, resp.Header.Get("X-Requester-Id"))
	return true
}

func main() {
	requester := fmt.Sprintf("script-%d", time.Now().Unix())
	ok := true

	ok = step("Health", http.StatusOK, http.MethodGet, "/health", "", nil) && ok
	ok = step("Resolve one (gaming, Ryzen preferred)", http.StatusOK, http.MethodPost, "/builds/v1/resolve-one", requester,
		map[string]string{"text": "PC gaming 25 triệu dùng Ryzen 5 5600"}) && ok
	ok = step("Resolve many (all strategies)", http.StatusOK, http.MethodPost, "/builds/v1/resolve", requester,
		map[string]interface{}{"text": "máy workstation tầm 30tr"}) && ok
	ok = step("Resolve many (second call shares the session)", http.StatusOK, http.MethodPost, "/builds/v1/resolve", requester,
		map[string]interface{}{"text": "máy workstation tầm 30tr", "strategies": []string{"cost"}}) && ok
	ok = step("Missing budget", http.StatusUnprocessableEntity, http.MethodPost, "/builds/v1/resolve-one", requester,
		map[string]string{"text": "PC gaming thật mạnh"}) && ok
	ok = step("Unknown strategy", http.StatusBadRequest, http.MethodPost, "/builds/v1/resolve", requester,
		map[string]interface{}{"text": "PC 20 triệu", "strategies": []string{"fastest"}}) && ok

	if !ok {
		color.Red("\nSome checks failed")
		os.Exit(1)
	}
	color.Green("\nAll checks passed")
}
