package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"nhooyr.io/websocket"

	"github.com/avanderw/highsociety/comms"
)

func runWebGateway(server *server, addr string) error {
	log := log.With().Str("gw", "web").Logger()

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	log.Info().Msgf("web listening on http://%v", ln.Addr())

	rh := restHandler{
		server: server,
		log:    log,
	}

	ch := commsHandler{
		server: server,
		log:    log,
	}

	r := gin.New()
	r.Use(gin.Recovery())
	a := r.Group("/api")
	a.GET("/rooms", rh.getRooms)
	a.POST("/rooms", rh.makeRoom)
	a.GET("/rooms/:id", rh.getRoom)
	a.DELETE("/rooms/:id", rh.deleteRoom)
	r.GET("/ws", ch.serveWS)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s := &http.Server{
		Handler:     r,
		ReadTimeout: time.Second * 10,
	}
	go func() {
		_ = s.Serve(ln)
	}()

	return nil
}

type restHandler struct {
	server *server
	log    zerolog.Logger
}

func (rh *restHandler) getRooms(c *gin.Context) {
	c.JSON(http.StatusOK, rh.server.ListRooms())
}

func (rh *restHandler) makeRoom(c *gin.Context) {
	turnSeconds := rh.server.cfg.TurnSeconds
	id := rh.server.CreateRoom(turnSeconds)
	c.JSON(http.StatusOK, gin.H{"id": id})
}

func (rh *restHandler) getRoom(c *gin.Context) {
	id := c.Param("id")
	info := rh.server.QueryRoom(id)
	if info == nil {
		c.JSON(http.StatusNotFound, nil)
		return
	}
	c.JSON(http.StatusOK, info)
}

func (rh *restHandler) deleteRoom(c *gin.Context) {
	id := c.Param("id")
	if err := rh.server.DeleteRoom(id); err != nil {
		c.String(http.StatusNotFound, "error: %v", err)
		return
	}
	c.String(http.StatusOK, "ok: %s", id)
}

type commsHandler struct {
	server *server
	log    zerolog.Logger
}

func (ch *commsHandler) serveWS(c *gin.Context) {
	addr := c.Request.RemoteAddr

	log := ch.log.With().Str("client", addr).Logger()

	roomID := c.Query("room")
	playerID := c.Query("player") // set on rejoin
	name := c.Query("name")

	// an opaque token stands in for room+player
	if token := c.Query("token"); token != "" {
		var err error
		roomID, playerID, err = DecodeRejoinToken(token)
		if err != nil {
			c.String(http.StatusBadRequest, "bad token")
			return
		}
	}

	if roomID == "" || (playerID == "" && name == "") {
		c.String(http.StatusBadRequest, "missing params")
		return
	}

	server := ch.server

	socket, err := websocket.Accept(c.Writer, c.Request, &websocket.AcceptOptions{
		Subprotocols:   []string{"comms"},
		OriginPatterns: server.cfg.Origins,
	})
	if err != nil {
		log.Info().Err(err).Msg("websocket accept error")
		return
	}
	defer socket.Close(websocket.StatusInternalError, "the sky is falling")

	if socket.Subprotocol() != "comms" {
		socket.Close(websocket.StatusPolicyViolation, "client must speak the comms subprotocol")
		return
	}

	downCh := make(chan comms.Message, 100)

	res := server.Connect(roomID, playerID, name, clientBundle{downCh})
	if res.Err != nil {
		log.Info().Err(res.Err).Msgf("refusing: %s", addr)
		msg := errorMessage(roomID, "REFUSED", res.Err.Error())
		sendDownWs(socket, msg)
		socket.Close(websocket.StatusNormalClosure, "cannot connect")
		return
	}

	joined, _ := comms.Encode(comms.RoomJoined, roomID, "", comms.JoinPayload{
		PlayerID: res.PlayerID,
		Name:     name,
		HostID:   res.HostID,
	})
	sendDownWs(socket, joined)

	go func() {
		// read downCh, write to conn
		for down := range downCh {
			if err := sendDownWs(socket, down); err != nil {
				log.Info().Err(err).Msg("send error")
				break
			}
		}
	}()

	for {
		// read conn, despatch into server
		msg, err := readMessageWs(socket)
		if websocket.CloseStatus(err) == websocket.StatusNormalClosure {
			server.coreCh <- disconnectMsg{Room: roomID, PlayerID: res.PlayerID, Down: downCh}
			return
		}
		if err != nil {
			log.Info().Err(err).Msgf("client read error: %v", addr)
			server.coreCh <- disconnectMsg{Room: roomID, PlayerID: res.PlayerID, Down: downCh}
			return
		}

		server.coreCh <- eventMsg{Room: roomID, From: res.PlayerID, Msg: msg}
	}
}

func sendDownWs(ws *websocket.Conn, msg comms.Message) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	w, err := ws.Writer(ctx, websocket.MessageText)
	if err != nil {
		return err
	}
	defer w.Close()

	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	if _, err := w.Write(data); err != nil {
		return err
	}
	return w.Close()
}

func readMessageWs(c *websocket.Conn) (comms.Message, error) {
	typ, r, err := c.Reader(context.Background())
	if err != nil {
		return comms.Message{}, err
	}

	if typ != websocket.MessageText {
		return comms.Message{}, fmt.Errorf("client sent a %v", typ)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return comms.Message{}, err
	}
	msg := comms.Message{}
	if err := json.Unmarshal(data, &msg); err != nil {
		return comms.Message{}, err
	}
	return msg, nil
}
