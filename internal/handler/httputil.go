package handler

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/snagtrack/snagtrack/internal/types"
)

// writeJSON marshals v as JSON and writes it with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("writeJSON encode error")
	}
}

// writeError writes a structured JSON error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]string{
		"error": message,
		"code":  code,
	})
}

// decodeJSON decodes the request body into v.
func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

// parseRuleset reads the optional ruleset query parameter. The default is
// v3, the later aligned formulation; v2 stays selectable per request.
func parseRuleset(w http.ResponseWriter, r *http.Request) (types.Ruleset, bool) {
	switch r.URL.Query().Get("ruleset") {
	case "", "v3":
		return types.RulesetV3, true
	case "v2":
		return types.RulesetV2, true
	}
	writeError(w, http.StatusBadRequest, "INVALID_RULESET", "ruleset must be v2 or v3")
	return "", false
}
