//go:build lambda

package main

import (
	"context"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/tidwall/gjson"
)

const exampleDoc = `{"blueprints": [
	{"id": 1, "ore": 4, "clay": 2, "obsidian": {"ore": 3, "clay": 14}, "geode": {"ore": 2, "obsidian": 7}},
	{"id": 2, "ore": 2, "clay": 3, "obsidian": {"ore": 3, "clay": 8}, "geode": {"ore": 3, "obsidian": 12}}]}`

func TestHandler_Blueprints(t *testing.T) {
	resp, err := handler(context.Background(), events.LambdaFunctionURLRequest{RawPath: "/", Body: exampleDoc})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, resp.Body)
	}
	if q := gjson.Get(resp.Body, "quality").Int(); q != 33 {
		t.Errorf("expected quality 33, got %d", q)
	}
	if h := gjson.Get(resp.Body, "horizon").Int(); h != 24 {
		t.Errorf("expected the default horizon, got %d", h)
	}
}

func TestHandler_Base64(t *testing.T) {
	body := base64.StdEncoding.EncodeToString([]byte(`{"horizon": 5, "blueprints": [{"id": 3, "ore": 1, "clay": 1, "obsidian": {"ore": 1, "clay": 1}, "geode": {"ore": 1, "obsidian": 1}}]}`))
	resp, _ := handler(context.Background(), events.LambdaFunctionURLRequest{Body: body, IsBase64Encoded: true})
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, resp.Body)
	}
	if id := gjson.Get(resp.Body, "results.0.blueprint_id").Int(); id != 3 {
		t.Errorf("expected blueprint 3, got %d", id)
	}
}

func TestHandler_Valves(t *testing.T) {
	input := strings.Join([]string{
		"Valve AA has flow rate=0; tunnels lead to valves BB",
		"Valve BB has flow rate=10; tunnels lead to valves AA",
	}, `\n`)
	resp, _ := handler(context.Background(), events.LambdaFunctionURLRequest{
		RawPath: "/valves",
		Body:    `{"input": "` + input + `", "minutes": 5}`,
	})
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, resp.Body)
	}
	// move 1, open 1, then 3 minutes of flow
	if p := gjson.Get(resp.Body, "pressure").Int(); p != 30 {
		t.Errorf("expected 30, got %d", p)
	}
}

func TestHandler_BadRequests(t *testing.T) {
	tests := []struct {
		name string
		req  events.LambdaFunctionURLRequest
	}{
		{"bad base64", events.LambdaFunctionURLRequest{Body: "%%%", IsBase64Encoded: true}},
		{"bad json", events.LambdaFunctionURLRequest{Body: "{"}},
		{"no blueprints", events.LambdaFunctionURLRequest{Body: `{"blueprints": []}`}},
		{"horizon over the cap", events.LambdaFunctionURLRequest{Body: `{"horizon": 41, "blueprints": [{"id": 1, "ore": 1, "clay": 1, "obsidian": {"ore": 1, "clay": 1}, "geode": {"ore": 1, "obsidian": 1}}]}`}},
		{"valve minutes over the cap", events.LambdaFunctionURLRequest{RawPath: "/valves", Body: `{"input": "Valve AA has flow rate=0; tunnels lead to valves BB\nValve BB has flow rate=10; tunnels lead to valves AA", "minutes": 400}`}},
		{"valves without input", events.LambdaFunctionURLRequest{RawPath: "/valves", Body: `{}`}},
		{"valves malformed", events.LambdaFunctionURLRequest{RawPath: "/valves", Body: `{"input": "Valve ZZ"}`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := handler(context.Background(), tt.req)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if resp.StatusCode != 400 {
				t.Errorf("expected 400, got %d: %s", resp.StatusCode, resp.Body)
			}
			if gjson.Get(resp.Body, "error").String() == "" {
				t.Error("expected an error message")
			}
		})
	}
}
