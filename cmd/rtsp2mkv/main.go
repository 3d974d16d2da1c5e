// Command rtsp2mkv is a small control-plane wrapper around the rtsp2mkv
// library: it exposes start/stop of a single recording as two HTTP
// endpoints, the way gohlslib's muxer_server.go exposes its HLS output
// over HTTP rather than as a library call.
package main

import (
	"flag"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/bluenviron/rtsp2mkv"
)

type server struct {
	mu   sync.Mutex
	rec  *Recorder
}

func (s *server) handleRecord(c *gin.Context) {
	var req struct {
		URL    string `json:"url" binding:"required"`
		Output string `json:"output" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.rec != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "a recording is already in progress"})
		return
	}

	rec, err := Start(req.URL, req.Output)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	s.rec = rec

	c.JSON(http.StatusOK, gin.H{"status": "recording"})
}

func (s *server) handleStop(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.rec == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "no recording in progress"})
		return
	}

	err := s.rec.Stop()
	s.rec = nil
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "stopped"})
}

func main() {
	addr := flag.String("addr", ":9995", "control API listen address")
	flag.Parse()

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	s := &server{}
	router.POST("/record", s.handleRecord)
	router.POST("/stop", s.handleStop)

	colorLogFunc(rtsp2mkv.LogLevelInfo, "control API listening on %s", *addr)
	if err := router.Run(*addr); err != nil {
		colorLogFunc(rtsp2mkv.LogLevelError, "control API: %v", err)
	}
}
