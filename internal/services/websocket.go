package services

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/dkmwangi/cabride-backend/internal/models"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for development
	},
}

// Client represents a WebSocket client
type Client struct {
	ID       uint
	UserRole models.Role
	Conn     *websocket.Conn
	Send     chan []byte
	Hub      *Hub
}

// Hub maintains the set of active clients and broadcasts booking lifecycle
// events to them.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	mutex      sync.RWMutex
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 16),
	}
}

// Run starts the hub
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			h.mutex.Unlock()
			log.Printf("Client %d connected", client.ID)

		case client := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
			}
			h.mutex.Unlock()
			log.Printf("Client %d disconnected", client.ID)

		case message := <-h.broadcast:
			h.mutex.Lock()
			for client := range h.clients {
				select {
				case client.Send <- message:
				default:
					close(client.Send)
					delete(h.clients, client)
				}
			}
			h.mutex.Unlock()
		}
	}
}

// BroadcastAll queues a message for every connected client; the hub loop
// delivers it. Drops the message rather than block when the queue is full.
func (h *Hub) BroadcastAll(message []byte) {
	select {
	case h.broadcast <- message:
	default:
		log.Printf("Warning: broadcast queue full, dropping message")
	}
}

// BroadcastToUser sends a message to a specific user
func (h *Hub) BroadcastToUser(userID uint, message []byte) {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	for client := range h.clients {
		if client.ID == userID {
			select {
			case client.Send <- message:
			default:
				log.Printf("Warning: could not send to client %d (channel full)", client.ID)
			}
		}
	}
}

// BroadcastToRole sends a message to all connected users with the given role
func (h *Hub) BroadcastToRole(role models.Role, message []byte) {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	for client := range h.clients {
		if client.UserRole == role {
			select {
			case client.Send <- message:
			default:
				log.Printf("Warning: could not send to client %d (channel full)", client.ID)
			}
		}
	}
}

// GetConnectedClients returns the number of connected clients
func (h *Hub) GetConnectedClients() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

// WebSocket message types
type WebSocketMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// BookingEvent notifies the interested parties of a lifecycle transition.
type BookingEvent struct {
	BookingID     uint                 `json:"bookingId"`
	UserID        uint                 `json:"userid"`
	DriverID      uint                 `json:"driverid"`
	BookStatus    models.BookStatus    `json:"bookstatus"`
	PaymentStatus models.PaymentStatus `json:"paymentstatus"`
}

func bookingEvent(eventType string, b *models.Booking) []byte {
	message := WebSocketMessage{
		Type: eventType,
		Data: BookingEvent{
			BookingID:     b.ID,
			UserID:        b.UserID,
			DriverID:      b.DriverID,
			BookStatus:    b.BookStatus,
			PaymentStatus: b.PaymentStatus,
		},
	}

	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("Error marshaling %s event: %v", eventType, err)
		return nil
	}
	return data
}

// NotifyBookingCreated tells the assigned driver a new booking is waiting.
func (h *Hub) NotifyBookingCreated(b *models.Booking) {
	if data := bookingEvent("booking_created", b); data != nil {
		h.BroadcastToUser(b.DriverID, data)
	}
}

// NotifyBookingAccepted tells the customer the driver took the ride.
func (h *Hub) NotifyBookingAccepted(b *models.Booking) {
	if data := bookingEvent("booking_accepted", b); data != nil {
		h.BroadcastToUser(b.UserID, data)
	}
}

// NotifyBookingCancelled reaches both parties and every connected admin, who
// watch the whole collection.
func (h *Hub) NotifyBookingCancelled(b *models.Booking) {
	if data := bookingEvent("booking_cancelled", b); data != nil {
		h.BroadcastToUser(b.UserID, data)
		h.BroadcastToUser(b.DriverID, data)
		h.BroadcastToRole(models.RoleAdmin, data)
	}
}

// NotifyPaymentSettled tells the driver the fare was paid.
func (h *Hub) NotifyPaymentSettled(b *models.Booking) {
	if data := bookingEvent("payment_settled", b); data != nil {
		h.BroadcastToUser(b.DriverID, data)
	}
}

// FleetEvent announces a vehicle change to every connected client so booking
// screens can refresh the car list.
type FleetEvent struct {
	CarID uint   `json:"carid"`
	Model string `json:"model"`
}

// NotifyFleetChanged broadcasts a car addition, update or removal to all
// clients.
func (h *Hub) NotifyFleetChanged(eventType string, car *models.Car) {
	message := WebSocketMessage{
		Type: eventType,
		Data: FleetEvent{CarID: car.ID, Model: car.Model},
	}

	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("Error marshaling %s event: %v", eventType, err)
		return
	}
	h.BroadcastAll(data)
}

// HandleWebSocket handles WebSocket connections
func HandleWebSocket(hub *Hub, w http.ResponseWriter, r *http.Request, userID uint, role models.Role) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	client := &Client{
		ID:       userID,
		UserRole: role,
		Conn:     conn,
		Send:     make(chan []byte, 256),
		Hub:      hub,
	}

	client.Hub.register <- client

	go client.writePump()
	go client.readPump()
}

// readPump pumps messages from the websocket connection to the hub
func (c *Client) readPump() {
	defer func() {
		c.Hub.unregister <- c
		c.Conn.Close()
	}()

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}
		// Clients only listen; inbound frames are drained and ignored.
	}
}

// writePump pumps messages from the hub to the websocket connection
func (c *Client) writePump() {
	defer c.Conn.Close()

	for message := range c.Send {
		if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
			log.Printf("WebSocket write error: %v", err)
			return
		}
	}
	c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
}
