// Package status broadcasts render loop messages to websocket clients.
package status

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	INFO = iota
	ERROR
	FRAME
)

type FrameStats struct {
	Index    int     `json:"index"`
	Draws    int     `json:"draws"`
	Calls    int     `json:"calls"`
	Rotation float64 `json:"rotation"`
	FPS      float64 `json:"fps"`
}

type status struct {
	Message string
	Time    time.Time
	Type    int
	Frame   *FrameStats `json:",omitempty"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

func (c *client) writePump() {
	ticker := time.NewTicker(time.Second * 30)
	defer func() {
		ticker.Stop()
		unregisterClient(c)
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(40 * time.Second))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				log.Printf("[status] ws write msg error: %v", err)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(40 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump drains control frames; it ends when the peer goes away.
func (c *client) readPump() {
	defer c.conn.Close()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func NewClient(conn *websocket.Conn) *client {
	c := &client{conn: conn, send: make(chan []byte, 32)}
	registerClient(c)
	go c.writePump()
	go c.readPump()
	globalLock.Lock()
	defer globalLock.Unlock()
	if lastMessage != nil {
		c.offer(lastMessage)
	}
	return c
}

// offer queues data unless the client is behind; a slow client catches up
// with the next message.
func (c *client) offer(data []byte) {
	select {
	case c.send <- data:
	default:
	}
}

var statusBroadcast chan *status
var broadcastList map[*client]bool
var globalLock sync.Mutex
var lastMessage []byte = nil

func registerClient(c *client) {
	globalLock.Lock()
	defer globalLock.Unlock()
	broadcastList[c] = true
}

func unregisterClient(c *client) {
	globalLock.Lock()
	defer globalLock.Unlock()
	delete(broadcastList, c)
}

func init() {
	statusBroadcast = make(chan *status, 16)
	broadcastList = make(map[*client]bool)
	go func() {
		for s := range statusBroadcast {
			data, err := json.Marshal(s)
			if err != nil {
				panic(err)
			}
			globalLock.Lock()
			lastMessage = data
			for c := range broadcastList {
				c.offer(data)
			}
			globalLock.Unlock()
		}
	}()
}

// Last returns the last broadcasted message as JSON, nil before the first.
func Last() []byte {
	globalLock.Lock()
	defer globalLock.Unlock()
	return lastMessage
}

// Status queues a message without blocking the caller; when the queue is
// full the message is dropped.
func Status(msg string, _type int, frame *FrameStats) {
	select {
	case statusBroadcast <- &status{
		Message: msg,
		Time:    time.Now(),
		Type:    _type,
		Frame:   frame}:
	default:
	}
}

func Info(format string, a ...interface{}) {
	Status(fmt.Sprintf(format, a...), INFO, nil)
}

func Error(format string, a ...interface{}) {
	Status(fmt.Sprintf(format, a...), ERROR, nil)
}

func Frame(stats FrameStats) {
	Status(fmt.Sprintf("frame %d", stats.Index), FRAME, &stats)
}
