package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// Query commands prefer the HTTP API when a server is running: Bleve and
// SQLite hold file locks, so opening the storage directly while the server
// owns it would fail. An empty --server falls back to direct storage.

func decodeResponse(resp *http.Response, out interface{}) error {
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(b, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("server returned %d: %s", resp.StatusCode, apiErr.Error)
		}
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func getViaHTTP(serverURL, path string, out interface{}) error {
	resp, err := http.Get(serverURL + path)
	if err != nil {
		return err
	}
	return decodeResponse(resp, out)
}

func postViaHTTP(serverURL, path string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	resp, err := http.Post(serverURL+path, "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	return decodeResponse(resp, out)
}

func lookupViaHTTP(serverURL, word string) (*WordInfo, error) {
	var info WordInfo
	if err := getViaHTTP(serverURL, "/api/v1/words/"+url.PathEscape(word), &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func similarViaHTTP(serverURL, word string, pos string, limit int, minSimilarity float64) (*SimilarResponse, error) {
	params := url.Values{}
	if pos != "" {
		params.Set("pos", pos)
	}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	if minSimilarity > 0 {
		params.Set("min_similarity", strconv.FormatFloat(minSimilarity, 'g', -1, 64))
	}
	path := "/api/v1/words/" + url.PathEscape(word) + "/similar"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}
	var out SimilarResponse
	if err := getViaHTTP(serverURL, path, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func batchSimilarViaHTTP(serverURL string, words []string, pos string, limit int, minSimilarity float64) (*BatchSimilarResponse, error) {
	payload := struct {
		Words         []string `json:"words"`
		POS           string   `json:"pos,omitempty"`
		Limit         int      `json:"limit,omitempty"`
		MinSimilarity float64  `json:"min_similarity,omitempty"`
	}{Words: words, POS: pos, Limit: limit, MinSimilarity: minSimilarity}
	var out BatchSimilarResponse
	if err := postViaHTTP(serverURL, "/api/v1/similar", payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func compareViaHTTP(serverURL, word1, word2 string) (*CompareResponse, error) {
	payload := struct {
		Word1 string `json:"word1"`
		Word2 string `json:"word2"`
	}{Word1: word1, Word2: word2}
	var out CompareResponse
	if err := postViaHTTP(serverURL, "/api/v1/compare", payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func searchViaHTTP(serverURL, query string, pos string, exact bool, limit int) (*SearchResponse, error) {
	params := url.Values{}
	params.Set("q", query)
	if pos != "" {
		params.Set("pos", pos)
	}
	if exact {
		params.Set("exact", "true")
	}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	var out SearchResponse
	if err := getViaHTTP(serverURL, "/api/v1/search?"+params.Encode(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func statusViaHTTP(serverURL string) (*StatusResponse, error) {
	var out StatusResponse
	if err := getViaHTTP(serverURL, "/api/v1/status", &out); err != nil {
		return nil, err
	}
	return &out, nil
}
