package testutil

import (
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/gin-gonic/gin"
)

// ReplyFunc produces the bot answer for a query.
type ReplyFunc func(query string) string

// FakeBackend is an in-process stand-in for the chatbot service. It keeps a
// flat user/bot memory like the real one and can be told to fail.
type FakeBackend struct {
	Server *httptest.Server

	mu         sync.Mutex
	memory     []string
	reply      ReplyFunc
	failStatus map[string]int
	requests   map[string]int
	requestIDs []string
}

func echoReply(query string) string {
	return "You asked: " + query
}

// NewFakeBackend starts a fake service. Call Close when done.
func NewFakeBackend(history ...string) *FakeBackend {
	gin.SetMode(gin.TestMode)

	fb := &FakeBackend{
		memory:     append([]string{}, history...),
		reply:      echoReply,
		failStatus: map[string]int{},
		requests:   map[string]int{},
	}

	router := gin.New()
	router.Use(fb.track)
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Competitive Intelligence Chatbot is ready!"})
	})
	router.GET("/memory", fb.handleMemory)
	router.POST("/clear-memory", fb.handleClear)
	router.POST("/chat", fb.handleChat)

	fb.Server = httptest.NewServer(router)
	return fb
}

func (fb *FakeBackend) URL() string {
	return fb.Server.URL
}

func (fb *FakeBackend) Close() {
	fb.Server.Close()
}

// SetReply replaces the answer generator.
func (fb *FakeBackend) SetReply(fn ReplyFunc) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.reply = fn
}

// FailWith makes every request to path answer with status. Zero clears it.
func (fb *FakeBackend) FailWith(path string, status int) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	if status == 0 {
		delete(fb.failStatus, path)
		return
	}
	fb.failStatus[path] = status
}

// Requests returns how many requests hit path.
func (fb *FakeBackend) Requests(path string) int {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return fb.requests[path]
}

// RequestIDs returns the X-Request-ID headers seen so far.
func (fb *FakeBackend) RequestIDs() []string {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return append([]string{}, fb.requestIDs...)
}

// Memory returns a copy of the stored history.
func (fb *FakeBackend) Memory() []string {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return append([]string{}, fb.memory...)
}

func (fb *FakeBackend) track(c *gin.Context) {
	fb.mu.Lock()
	fb.requests[c.Request.URL.Path]++
	fb.requestIDs = append(fb.requestIDs, c.GetHeader("X-Request-ID"))
	status := fb.failStatus[c.Request.URL.Path]
	fb.mu.Unlock()

	if status != 0 {
		c.String(status, "induced failure")
		c.Abort()
		return
	}
	c.Next()
}

func (fb *FakeBackend) handleMemory(c *gin.Context) {
	fb.mu.Lock()
	messages := append([]string{}, fb.memory...)
	fb.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

func (fb *FakeBackend) handleClear(c *gin.Context) {
	fb.mu.Lock()
	fb.memory = nil
	fb.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{"status": "Memory cleared"})
}

func (fb *FakeBackend) handleChat(c *gin.Context) {
	var req struct {
		Query string `json:"query" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}

	fb.mu.Lock()
	answer := fb.reply(req.Query)
	fb.memory = append(fb.memory, req.Query, answer)
	fb.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{"response": answer})
}
