package engine

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/krisfkt/PaddleOCR-Tools/internal/telemetry"
)

const defaultServerURL = "http://127.0.0.1:8089"

// PaddleEngine talks to a PaddleOCR serving process over HTTP. The server
// exposes either the newer /predict route or only the legacy /ocr route;
// which one is probed once at construction and cached on the handle.
type PaddleEngine struct {
	cfg        Config
	baseURL    string
	client     *http.Client
	usePredict bool
}

type paddleRequest struct {
	Image       string `json:"image"`
	Lang        string `json:"lang"`
	UseAngleCls bool   `json:"use_angle_cls"`
	UseGPU      bool   `json:"use_gpu"`
}

// NewPaddleEngine verifies the server is reachable and probes its call
// convention. An unreachable server fails the candidate.
func NewPaddleEngine(cfg Config) (*PaddleEngine, error) {
	baseURL := strings.TrimRight(cfg.ServerURL, "/")
	if baseURL == "" {
		baseURL = defaultServerURL
	}
	client := &http.Client{Timeout: 10 * time.Second}

	resp, err := client.Get(baseURL + "/")
	if err != nil {
		return nil, fmt.Errorf("paddle server unreachable at %s: %w", baseURL, err)
	}
	resp.Body.Close()

	// A 404 on the route itself means only the legacy convention exists;
	// 405 (or anything else) means the route is there and wants POST.
	usePredict := true
	if resp, err := client.Get(baseURL + "/predict"); err == nil {
		resp.Body.Close()
		if resp.StatusCode == http.StatusNotFound {
			usePredict = false
		}
	}
	telemetry.L().Debug().Str("server", baseURL).Bool("predict", usePredict).Msg("paddle engine ready")

	return &PaddleEngine{
		cfg:        cfg,
		baseURL:    baseURL,
		client:     client,
		usePredict: usePredict,
	}, nil
}

func (p *PaddleEngine) Recognize(ctx context.Context, img image.Image) (json.RawMessage, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding image for paddle server: %w", err)
	}

	body, err := json.Marshal(paddleRequest{
		Image:       base64.StdEncoding.EncodeToString(buf.Bytes()),
		Lang:        p.cfg.Lang,
		UseAngleCls: p.cfg.AngleClass,
		UseGPU:      p.cfg.UseGPU,
	})
	if err != nil {
		return nil, fmt.Errorf("marshaling paddle request: %w", err)
	}

	route := "/predict"
	if !p.usePredict {
		route = "/ocr"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+route, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building paddle request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("paddle request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading paddle response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("paddle server returned %d: %s", resp.StatusCode, truncate(raw, 200))
	}
	if !json.Valid(raw) {
		return nil, fmt.Errorf("paddle server returned invalid JSON (%d bytes)", len(raw))
	}
	return json.RawMessage(raw), nil
}

func (p *PaddleEngine) Describe() string {
	convention := "predict"
	if !p.usePredict {
		convention = "ocr (legacy)"
	}
	return fmt.Sprintf("paddle %s via %s [%s]", p.cfg.Lang, p.baseURL, convention)
}

func (p *PaddleEngine) Close() error { return nil }

func truncate(b []byte, n int) string {
	s := string(b)
	if len(s) > n {
		return s[:n] + "..."
	}
	return s
}
