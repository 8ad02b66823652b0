package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/copromote/henry-help/config"
)

// ImageRequest asks for one AI marketing image for a bundle or campaign
type ImageRequest struct {
	SellerID  uint
	Reference string // bundle/campaign UUID the image is for
	Prompt    string
	Callback  func(imageURL string, err error)
}

// ImageService generates marketing images. Requests are processed strictly in
// submission order with a fixed pause between provider calls, and at most one
// request is in flight at a time; a request that has started is never
// cancelled.
type ImageService interface {
	Enqueue(req ImageRequest) error
	Stop()
}

// ImageServiceImpl runs a single worker goroutine draining a FIFO queue.
type ImageServiceImpl struct {
	cfg    config.ImageConfig
	client *http.Client

	queue chan ImageRequest
	stop  chan struct{}
	done  chan struct{}
	once  sync.Once
}

// NewImageService creates and starts the image generation worker
func NewImageService(cfg config.ImageConfig) ImageService {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	s := &ImageServiceImpl{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
		queue:  make(chan ImageRequest, 256),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	go s.run()
	return s
}

// Enqueue adds a request to the generation queue. It fails fast when the
// queue is full rather than blocking the caller.
func (s *ImageServiceImpl) Enqueue(req ImageRequest) error {
	select {
	case s.queue <- req:
		return nil
	default:
		return fmt.Errorf("image generation queue is full")
	}
}

// Stop shuts the worker down after the in-flight request finishes.
func (s *ImageServiceImpl) Stop() {
	s.once.Do(func() {
		close(s.stop)
	})
	<-s.done
}

func (s *ImageServiceImpl) run() {
	defer close(s.done)

	delay := s.cfg.RequestDelay
	if delay <= 0 {
		delay = 2 * time.Second
	}

	for {
		select {
		case <-s.stop:
			return
		case req := <-s.queue:
			// The generation call itself is not cancellable; Stop only takes
			// effect between requests.
			url, err := s.generate(req)
			if req.Callback != nil {
				req.Callback(url, err)
			}
			if err != nil {
				log.Printf("image generation failed for %s: %v", req.Reference, err)
			}

			select {
			case <-s.stop:
				return
			case <-time.After(delay):
			}
		}
	}
}

func (s *ImageServiceImpl) generate(req ImageRequest) (string, error) {
	body, err := json.Marshal(map[string]any{
		"prompt": req.Prompt,
		"size":   "1024x1024",
	})
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(context.Background(), http.MethodPost, s.cfg.BaseURL+"/v1/images/generations", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("image provider http status %d: %s", resp.StatusCode, string(b))
	}

	var out struct {
		Data []struct {
			URL string `json:"url"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode image response: %w", err)
	}
	if len(out.Data) == 0 {
		return "", fmt.Errorf("image provider returned no images")
	}
	return out.Data[0].URL, nil
}
