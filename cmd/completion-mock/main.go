// completion-mock answers the messages endpoint with a canned recommendation
// list. The -fail and -prose flags exercise the engine's error paths.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"net/http"
)

const cannedRecommendations = `[
  {"title": "Memento", "year": 2000, "reason": "A puzzle-box plot told in reverse that rewards the same close attention."},
  {"title": "Shutter Island", "year": 2010, "reason": "A twisting psychological mystery with strong lead performances."},
  {"title": "The Prestige", "year": 2006, "reason": "Layered storytelling and rivalry with a meticulous structure."}
]`

func main() {
	var (
		port  = flag.String("port", "9098", "port to listen on")
		fail  = flag.Bool("fail", false, "respond with 500 to every request")
		prose = flag.Bool("prose", false, "respond with prose instead of JSON")
	)
	flag.Parse()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/messages", func(w http.ResponseWriter, r *http.Request) {
		if *fail {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		text := cannedRecommendations
		if *prose {
			text = "Here are some movies you might enjoy: Memento, Shutter Island, and The Prestige."
		}

		w.Header().Set("Content-Type", "application/json")
		payload := map[string]interface{}{
			"content": []map[string]string{{"type": "text", "text": text}},
		}
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})

	addr := ":" + *port
	log.Printf("mock completion listening on %s (fail=%v, prose=%v)", addr, *fail, *prose)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
