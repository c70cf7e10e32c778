package server

import (
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pthm-cable/constellation/engine"
	"github.com/pthm-cable/constellation/platform"
	"github.com/pthm-cable/constellation/renderer"
	"github.com/pthm-cable/constellation/systems"
	"github.com/pthm-cable/constellation/telemetry"
)

type harness struct {
	srv     *Server
	engine  *engine.Engine
	loop    *platform.Loop
	surface *renderer.SVGSurface
	cancel  context.CancelFunc
}

// newHarness builds a 400x300 field. When run is true the loop is started
// and the engine with it.
func newHarness(t *testing.T, run bool) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)

	h := &harness{
		loop:    platform.NewLoop(time.Millisecond),
		surface: renderer.NewSVGSurface(400, 300, renderer.Color{}),
	}
	var pointer platform.PointerHub
	var resize platform.ResizeHub

	h.engine = engine.New(engine.Options{
		Surface:   h.surface,
		Scheduler: h.loop,
		Pointer:   &pointer,
		Resize:    &resize,
		Rand:      rand.New(rand.NewSource(1)),
		Spawn:     systems.DefaultSpawnParams(),
		Physics:   systems.DefaultPhysicsParams(),
		Style:     renderer.DefaultStyle(),
	})
	h.srv = New(Options{
		Engine:  h.engine,
		Loop:    h.loop,
		Surface: h.surface,
		Pointer: &pointer,
		Resize:  &resize,
	})

	ctx, cancel := context.WithCancel(context.Background())
	h.cancel = cancel
	if run {
		go h.loop.Run(ctx)
		if err := h.loop.Call(ctx, h.engine.Start); err != nil {
			t.Fatalf("starting engine: %v", err)
		}
	}
	t.Cleanup(func() {
		cancel()
		if run {
			<-h.loop.Done()
		}
		h.engine.Stop()
	})
	return h
}

func (h *harness) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.srv.Handler().ServeHTTP(w, req)
	return w
}

func (h *harness) stats(t *testing.T) Stats {
	t.Helper()
	w := h.do(http.MethodGet, "/api/stats", "")
	if w.Code != http.StatusOK {
		t.Fatalf("GET /api/stats = %d: %s", w.Code, w.Body.String())
	}
	var s Stats
	if err := json.Unmarshal(w.Body.Bytes(), &s); err != nil {
		t.Fatalf("decoding stats: %v", err)
	}
	return s
}

func TestHealthz(t *testing.T) {
	h := newHarness(t, false)

	w := h.do(http.MethodGet, "/healthz", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"ok"`) {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestFrameBeforeFirstRender(t *testing.T) {
	h := newHarness(t, false)

	if w := h.do(http.MethodGet, "/frame.svg", ""); w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", w.Code)
	}
}

func TestFrame(t *testing.T) {
	h := newHarness(t, true)

	deadline := time.Now().Add(5 * time.Second)
	for h.surface.Frames() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("no frame rendered")
		}
		time.Sleep(time.Millisecond)
	}

	w := h.do(http.MethodGet, "/frame.svg", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("content type = %q", ct)
	}
	if !strings.Contains(w.Body.String(), "<svg") {
		t.Error("body is not an SVG document")
	}
}

func TestStats(t *testing.T) {
	h := newHarness(t, true)

	s := h.stats(t)
	// 400*300 / 15000
	if s.Particles != 8 {
		t.Errorf("particles = %d, want 8", s.Particles)
	}
	if s.Width != 400 || s.Height != 300 {
		t.Errorf("size = %vx%v, want 400x300", s.Width, s.Height)
	}
	if s.PointerActive {
		t.Error("pointer active before any move")
	}
	if s.Speed.Mean <= 0 {
		t.Errorf("mean speed = %v, want > 0", s.Speed.Mean)
	}
}

func TestPointerEndpoints(t *testing.T) {
	h := newHarness(t, true)

	if w := h.do(http.MethodPost, "/api/pointer", `{"x": 120, "y": 80}`); w.Code != http.StatusNoContent {
		t.Fatalf("POST /api/pointer = %d: %s", w.Code, w.Body.String())
	}
	if !h.stats(t).PointerActive {
		t.Error("pointer inactive after move")
	}

	if w := h.do(http.MethodDelete, "/api/pointer", ""); w.Code != http.StatusNoContent {
		t.Fatalf("DELETE /api/pointer = %d", w.Code)
	}
	if h.stats(t).PointerActive {
		t.Error("pointer active after leave")
	}
}

func TestPointerRejectsBadBody(t *testing.T) {
	h := newHarness(t, true)

	for _, body := range []string{`{`, `{"x": 1}`, `{"x": "a", "y": 2}`} {
		if w := h.do(http.MethodPost, "/api/pointer", body); w.Code != http.StatusBadRequest {
			t.Errorf("body %s: status = %d, want 400", body, w.Code)
		}
	}
}

func TestResize(t *testing.T) {
	h := newHarness(t, true)

	if w := h.do(http.MethodPost, "/api/resize", `{"width": 1000, "height": 1000}`); w.Code != http.StatusNoContent {
		t.Fatalf("POST /api/resize = %d: %s", w.Code, w.Body.String())
	}

	s := h.stats(t)
	if s.Particles != 66 {
		t.Errorf("particles after resize = %d, want 66", s.Particles)
	}
	if w, ht := h.surface.Size(); w != 1000 || ht != 1000 {
		t.Errorf("surface size = %vx%v, want 1000x1000", w, ht)
	}
}

func TestResizeRejectsInvalid(t *testing.T) {
	h := newHarness(t, true)

	for _, body := range []string{`not json`, `{"width": 100}`, `{"width": -1, "height": 100}`} {
		if w := h.do(http.MethodPost, "/api/resize", body); w.Code != http.StatusBadRequest {
			t.Errorf("body %s: status = %d, want 400", body, w.Code)
		}
	}
	if s := h.stats(t); s.Particles != 8 {
		t.Errorf("rejected resize changed the field: %d particles", s.Particles)
	}
}

func TestWindowWithoutRecorder(t *testing.T) {
	h := newHarness(t, false)

	if w := h.do(http.MethodGet, "/api/window", ""); w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestWindowUsesSnakeCaseKeys(t *testing.T) {
	h := newHarness(t, true)

	recorder := telemetry.NewRecorder(telemetry.NewCollector(2, 1.0/60.0), nil, nil, false)
	for tick := int64(1); tick <= 2; tick++ {
		recorder.Observe(telemetry.FrameSample{Tick: tick, Particles: 8, Connections: 3}, nil)
	}
	srv := New(Options{Engine: h.engine, Loop: h.loop, Surface: h.surface, Recorder: recorder})

	req := httptest.NewRequest(http.MethodGet, "/api/window", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}

	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding window: %v", err)
	}
	for _, key := range []string{"window_end", "particles", "connections_mean", "speed_p90", "pointer_active"} {
		if _, ok := body[key]; !ok {
			t.Errorf("key %q missing from %s", key, w.Body.String())
		}
	}
	if _, ok := body["WindowEndTick"]; ok {
		t.Errorf("Go field name leaked into JSON: %s", w.Body.String())
	}
	if body["window_end"] != float64(2) || body["connections_mean"] != float64(3) {
		t.Errorf("window = %s", w.Body.String())
	}
}

func TestStatsAfterLoopStopped(t *testing.T) {
	h := newHarness(t, true)
	h.cancel()
	<-h.loop.Done()

	if w := h.do(http.MethodGet, "/api/stats", ""); w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", w.Code)
	}
}
