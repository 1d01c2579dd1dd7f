// internal/notification/webhook.go
package notification

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"
)

// Webhook posts JSON alerts to an operations channel. A blank URL disables
// it.
type Webhook struct {
	URL string
	log *logrus.Logger
}

func NewWebhook(url string, log *logrus.Logger) *Webhook {
	return &Webhook{URL: url, log: log}
}

// PostAlert fires a best-effort JSON alert.
func (w *Webhook) PostAlert(payload map[string]string) {
	if w.URL == "" {
		return
	}
	body, _ := json.Marshal(payload)

	resp, err := http.Post(w.URL, "application/json", bytes.NewBuffer(body))
	if err != nil {
		w.log.Errorf("Failed to post webhook alert: %v", err)
		return
	}
	defer resp.Body.Close()
}
