package title

import (
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/example/scriptbar/internal/directive"
)

// Icon is a decoded inline image. MIME is a best-effort sniff; consumers that
// need the real format decode Data themselves.
type Icon struct {
	Data     []byte
	MIME     string
	Template bool
}

func decodeIcon(p directive.Params) *Icon {
	raw, template := p.Image, false
	if p.TemplateImage != "" {
		raw, template = p.TemplateImage, true
	}
	data, err := decodeBase64(raw)
	if err != nil || len(data) == 0 {
		return nil
	}
	return &Icon{Data: data, MIME: http.DetectContentType(data), Template: template}
}

// decodeBase64 accepts standard or unpadded base64, optionally wrapped in a
// data URL.
func decodeBase64(value string) ([]byte, error) {
	trimmed := strings.TrimSpace(value)
	if idx := strings.Index(trimmed, ","); idx > -1 && strings.Contains(trimmed[:idx], "base64") {
		trimmed = strings.TrimSpace(trimmed[idx+1:])
	}
	if trimmed == "" {
		return nil, nil
	}

	data, err := base64.StdEncoding.DecodeString(trimmed)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(trimmed)
		if err != nil {
			return nil, err
		}
	}
	return data, nil
}
