package reason

import (
	"encoding/json"
	"fmt"
	"strings"
)

// parsePayload decodes the strict-JSON assessment a provider returned.
// Models occasionally wrap JSON in markdown code fences despite instructions,
// so fences are stripped before decoding. Anything else is a bad response.
func parsePayload(provider, raw string) (payload, error) {
	text := stripCodeFences(strings.TrimSpace(raw))
	if text == "" {
		return payload{}, &ProviderError{
			Provider: provider,
			Kind:     KindBadResponse,
			Err:      fmt.Errorf("empty response"),
		}
	}

	var p payload
	if err := json.Unmarshal([]byte(text), &p); err != nil {
		return payload{}, &ProviderError{
			Provider: provider,
			Kind:     KindBadResponse,
			Err:      fmt.Errorf("bad JSON: %w", err),
		}
	}
	if strings.TrimSpace(p.Assessment) == "" {
		return payload{}, &ProviderError{
			Provider: provider,
			Kind:     KindBadResponse,
			Err:      fmt.Errorf("response missing assessment"),
		}
	}

	return p, nil
}

// stripCodeFences removes a surrounding markdown code fence, with or without
// a language tag.
func stripCodeFences(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "\n"); idx >= 0 {
		// Drop the language tag line ("json", "")
		s = s[idx+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
