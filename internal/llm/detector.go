package llm

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/devtrail/devtrail/internal/contract"
	"github.com/devtrail/devtrail/schema"
)

// responseCacheVersion tags cached LLM responses; bump to invalidate them.
const responseCacheVersion = 1

// Detector asks a Model to turn file-extension frequencies into a technology
// weight distribution. Responses are cached by prompt digest when a cache
// store is attached.
type Detector struct {
	model contract.Model
	cache contract.CacheStore
}

var _ contract.TechnologyDetector = &Detector{}

// NewDetector creates a Detector. cache may be nil to disable response
// caching.
func NewDetector(model contract.Model, cache contract.CacheStore) *Detector {
	return &Detector{model: model, cache: cache}
}

// Detect implements the TechnologyDetector interface. An unparsable model
// response degrades to an empty map after one repair attempt, it is not an
// error.
func (d *Detector) Detect(ctx context.Context, files []string, hints []string) (schema.WeightMap, error) {
	freq := extensionFrequency(files)
	if len(freq) == 0 {
		return schema.WeightMap{}, nil
	}

	out, err := d.generate(ctx, buildDetectPrompt(freq, hints))
	if err != nil {
		return nil, err
	}
	return parseWeightMap(out), nil
}

// ProjectTechnologies profiles the repository's technology list from its
// documentation and layout. An unparsable response yields an empty list.
func (d *Detector) ProjectTechnologies(ctx context.Context, pc *schema.ProjectContext) ([]string, error) {
	if len(pc.ReadmeFiles) == 0 && pc.Structure == "" {
		return nil, nil
	}

	out, err := d.generate(ctx, buildContextPrompt(pc))
	if err != nil {
		return nil, err
	}

	var techs []string
	if err := json.Unmarshal([]byte(extractJSON(out, '[', ']')), &techs); err != nil {
		contract.LogWarn("unparsable technology list from model, continuing without hints", err)
		return nil, nil
	}
	return techs, nil
}

// generate runs the prompt through the model, consulting the response cache
// first. Cache failures only log; the model call is the source of truth.
func (d *Detector) generate(ctx context.Context, prompt string) (string, error) {
	var key string
	if d.cache != nil {
		digest := sha256.Sum256([]byte(prompt))
		key = "llm:" + base64.RawURLEncoding.EncodeToString(digest[:])
		if value, _, _, err := d.cache.Get(key); err == nil && len(value) > 0 {
			return string(value), nil
		}
	}

	out, err := d.model.Generate(ctx, prompt, contract.GenerateOptions{Temperature: 0.1})
	if err != nil {
		return "", fmt.Errorf("detection prompt failed: %w", err)
	}

	if d.cache != nil {
		if err := d.cache.Set(key, []byte(out), responseCacheVersion, time.Now().Unix()); err != nil {
			contract.LogWarn("failed to cache model response", err)
		}
	}
	return out, nil
}

// extensionFrequency counts file extensions across the given paths. Files
// without an extension are counted under their base name, so Makefile and
// Dockerfile stay visible to the model.
func extensionFrequency(files []string) map[string]int {
	freq := make(map[string]int)
	for _, f := range files {
		base := filepath.Base(f)
		ext := filepath.Ext(base)
		if ext == "" {
			freq[base]++
			continue
		}
		freq[ext]++
	}
	return freq
}

// parseWeightMap reads the model's JSON object response. One repair attempt
// covers the common truncation failures; if that also fails the result is an
// empty map.
func parseWeightMap(out string) schema.WeightMap {
	text := extractJSON(out, '{', '}')

	var weights schema.WeightMap
	if err := json.Unmarshal([]byte(text), &weights); err == nil {
		return weights
	}
	if err := json.Unmarshal([]byte(repairJSONObject(text)), &weights); err == nil {
		return weights
	}
	contract.LogWarn("unparsable weight map from model, using empty distribution", nil)
	return schema.WeightMap{}
}

// extractJSON cuts the first open..last close span out of a response,
// tolerating code fences and prose around the payload.
func extractJSON(out string, opening, closing byte) string {
	start := strings.IndexByte(out, opening)
	end := strings.LastIndexByte(out, closing)
	if start == -1 {
		return strings.TrimSpace(out)
	}
	if end > start {
		return out[start : end+1]
	}
	return out[start:]
}

// repairJSONObject fixes a truncated object: drops a trailing comma and
// closes the brace if the response was cut off mid-payload.
func repairJSONObject(text string) string {
	repaired := strings.TrimSpace(text)
	repaired = strings.TrimSuffix(repaired, ",")
	if !strings.HasSuffix(repaired, "}") {
		repaired += "}"
	}
	return repaired
}
