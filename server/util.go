package server

import (
	"encoding/base64"
	"errors"
	"strings"
)

// EncodeRejoinToken packs a room and seat id into an opaque token a client
// can hold on to across restarts.
func EncodeRejoinToken(roomID, playerID string) string {
	s := roomID + "//" + playerID
	return base64.StdEncoding.EncodeToString([]byte(s))
}

// DecodeRejoinToken is the inverse of EncodeRejoinToken.
func DecodeRejoinToken(token string) (roomID, playerID string, err error) {
	s, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return "", "", errors.New("bad token")
	}
	ss := strings.Split(string(s), "//")
	if len(ss) != 2 {
		return "", "", errors.New("bad token")
	}
	return ss[0], ss[1], nil
}
