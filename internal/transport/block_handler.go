// Package transport exposes the HTTP and gRPC surfaces of the ledger.
package transport

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/ratelimit"
	"go.uber.org/zap"

	"github.com/goodnatureofminers/sensorledger/internal/jsonx"
	"github.com/goodnatureofminers/sensorledger/internal/model"
	"github.com/goodnatureofminers/sensorledger/internal/service"
)

const (
	statusSuccess = "success"
	statusFailed  = "failed"

	defaultMaxBodyBytes = 1 << 20
	defaultHeartbeat    = 15 * time.Second
)

type ackResponse struct {
	Status    string `json:"status"`
	Index     uint64 `json:"index"`
	Duplicate bool   `json:"duplicate"`
}

type failureResponse struct {
	Status        string  `json:"status"`
	Code          string  `json:"code"`
	Reason        string  `json:"reason"`
	ExpectedIndex *uint64 `json:"expected_index,omitempty"`
}

type countResponse struct {
	Count int `json:"count"`
}

// BlockHandler serves uploads and read-only views of the chain.
type BlockHandler struct {
	ingest    Ingestor
	query     BlockQuerier
	limiter   ratelimit.Limiter
	maxBody   int64
	heartbeat time.Duration
	closing   <-chan struct{}
	logger    *zap.Logger
}

// NewBlockHandler wires the upload and query endpoints.
func NewBlockHandler(ingest Ingestor, query BlockQuerier, cfg RouterConfig, logger *zap.Logger) (*BlockHandler, error) {
	if ingest == nil {
		return nil, errors.New("ingestor is required")
	}
	if query == nil {
		return nil, errors.New("block querier is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	limiter := ratelimit.NewUnlimited()
	if cfg.UploadRPS > 0 {
		limiter = ratelimit.New(cfg.UploadRPS)
	}
	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = defaultMaxBodyBytes
	}
	heartbeat := cfg.Heartbeat
	if heartbeat <= 0 {
		heartbeat = defaultHeartbeat
	}

	return &BlockHandler{
		ingest:    ingest,
		query:     query,
		limiter:   limiter,
		maxBody:   maxBody,
		heartbeat: heartbeat,
		closing:   cfg.Closing,
		logger:    logger,
	}, nil
}

// Status renders the landing page.
func (h *BlockHandler) Status(w http.ResponseWriter, _ *http.Request) {
	tip, ok := h.query.Tip()
	renderHTML(w, h.logger, statusPage, struct {
		Count  int
		Tip    model.ChainTip
		HasTip bool
	}{Count: h.query.Count(), Tip: tip, HasTip: ok})
}

// UploadPage answers GET /upload_block for browsers.
func (h *BlockHandler) UploadPage(w http.ResponseWriter, _ *http.Request, _ map[string]string) {
	renderHTML(w, h.logger, waitingPage, nil)
}

// Upload accepts one JSON block per request.
func (h *BlockHandler) Upload(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	h.limiter.Take()
	if err := r.Context().Err(); err != nil {
		h.logger.Debug("uploader gone before upload was read", zap.Error(err))
		return
	}

	// One byte past the limit lets the ingestion size policy see the overflow.
	raw, err := io.ReadAll(io.LimitReader(r.Body, h.maxBody+1))
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, failureResponse{
			Status: statusFailed,
			Code:   string(service.CodeMalformedPayload),
			Reason: "failed to read request body",
		})
		return
	}

	ack, err := h.ingest.Submit(r.Context(), raw)
	if err != nil {
		h.writeSubmitError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, ackResponse{
		Status:    statusSuccess,
		Index:     ack.Index,
		Duplicate: ack.Duplicate,
	})
}

// List returns every stored block as JSON, or as an HTML table for browsers.
func (h *BlockHandler) List(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	blocks := h.query.ListAll()
	if blocks == nil {
		blocks = []model.BlockRecord{}
	}
	if wantsHTML(r) {
		renderHTML(w, h.logger, blocksPage, blocks)
		return
	}
	h.writeJSON(w, http.StatusOK, blocks)
}

// Count returns the number of stored blocks.
func (h *BlockHandler) Count(w http.ResponseWriter, _ *http.Request, _ map[string]string) {
	h.writeJSON(w, http.StatusOK, countResponse{Count: h.query.Count()})
}

// Stream pushes every accepted block as a Server-Sent Event.
func (h *BlockHandler) Stream(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	rc := http.NewResponseController(w)
	// The server write timeout would otherwise cut long-lived streams.
	_ = rc.SetWriteDeadline(time.Time{})

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	events, cancel := h.query.Subscribe(0)
	defer cancel()

	if _, err := fmt.Fprint(w, ": connected\n\n"); err != nil {
		return
	}
	if err := rc.Flush(); err != nil {
		h.logger.Warn("streaming unsupported", zap.Error(err))
		return
	}

	heartbeat := time.NewTicker(h.heartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-h.closing:
			return
		case <-heartbeat.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
		case rec, ok := <-events:
			if !ok {
				return
			}
			if err := writeBlockEvent(w, rec); err != nil {
				h.logger.Debug("stream write failed", zap.Error(err))
				return
			}
		}
		if err := rc.Flush(); err != nil {
			return
		}
	}
}

func writeBlockEvent(w io.Writer, rec model.BlockRecord) error {
	data, err := jsonx.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal block %d: %w", rec.Index, err)
	}
	_, err = fmt.Fprintf(w, "id: %d\nevent: block\ndata: %s\n\n", rec.Index, data)
	return err
}

func (h *BlockHandler) writeSubmitError(w http.ResponseWriter, err error) {
	var ierr *service.IngestError
	if !errors.As(err, &ierr) {
		h.logger.Error("unexpected submit error", zap.Error(err))
		h.writeJSON(w, http.StatusInternalServerError, failureResponse{
			Status: statusFailed,
			Code:   string(service.CodeInternal),
			Reason: "internal error",
		})
		return
	}

	h.writeJSON(w, httpStatus(ierr.Code), failureResponse{
		Status:        statusFailed,
		Code:          string(ierr.Code),
		Reason:        ierr.Reason,
		ExpectedIndex: ierr.ExpectedIndex,
	})
}

func (h *BlockHandler) writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := jsonx.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("encode response", zap.Error(err))
	}
}

func httpStatus(code service.Code) int {
	switch code {
	case service.CodeMalformedPayload:
		return http.StatusBadRequest
	case service.CodeIndexGap, service.CodeDuplicateIndex, service.CodeChainMismatch:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func wantsHTML(r *http.Request) bool {
	switch r.URL.Query().Get("format") {
	case "html":
		return true
	case "json":
		return false
	}
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}
