package viz

import (
	"fmt"
	"net/http"

	"github.com/gantry-robotics/graspgen/internal/grasp"
)

// Handler serves the candidate scatter as a debugging-only HTTP endpoint
// (no auth). run is invoked per request so the page always reflects a fresh
// enumeration.
func Handler(run func() ([]*grasp.Candidate, error)) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cands, err := run()
		if err != nil {
			http.Error(w, fmt.Sprintf("enumeration failed: %v", err), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := ScatterHTML(cands, w); err != nil {
			http.Error(w, fmt.Sprintf("failed to render chart: %v", err), http.StatusInternalServerError)
		}
	})
}
