package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

var (
	baseURL = flag.String("url", "http://localhost:8080", "base URL of a running roomscan server")
	image   = flag.String("image", "", "floor plan image path, relative to the server's workspace root")
	width   = flag.Float64("width", 1280, "container width to record in the result")
	height  = flag.Float64("height", 800, "container height to record in the result")
)

func main() {
	flag.Parse()
	if *image == "" {
		fmt.Println("usage: detect -image <path> [-width N] [-height N] [-url http://host:port]")
		os.Exit(2)
	}

	fmt.Println("Starting Detection Run...")

	// 1. Run Detection
	fmt.Println("1. Running Detection...")
	payload := map[string]interface{}{
		"imagePath": *image,
		"width":     *width,
		"height":    *height,
	}

	validDetect := sendRequest("POST", "/api/room-detection/opencv", payload)
	if !validDetect {
		fmt.Println("FAILED: Detection")
		os.Exit(1)
	}
	fmt.Println("PASSED: Detection")

	// 2. Fetch Stored Result
	floor := strings.TrimSuffix(filepath.Base(*image), filepath.Ext(*image))
	fmt.Println("2. Fetching Stored Result...")

	validFetch := sendRequest("GET", "/api/room-detection/floors/"+floor, nil)
	if !validFetch {
		fmt.Println("FAILED: Fetch stored result")
		os.Exit(1)
	}
	fmt.Println("PASSED: Fetch stored result")
}

func sendRequest(method, endpoint string, payload interface{}) bool {
	var body io.Reader
	if payload != nil {
		jsonBytes, _ := json.Marshal(payload)
		body = bytes.NewBuffer(jsonBytes)
	}

	req, err := http.NewRequest(method, *baseURL+endpoint, body)
	if err != nil {
		fmt.Printf("Error creating request: %v\n", err)
		return false
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error sending request: %v\n", err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		fmt.Printf("Request failed with status %d: %s\n", resp.StatusCode, string(respBody))
		return false
	}

	respBody, _ := io.ReadAll(resp.Body)
	fmt.Printf("Response: %s\n", string(respBody))

	return true
}
