package api_test

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/lookbusy1344/mips-sim/api"
	"github.com/lookbusy1344/mips-sim/memory"
	"github.com/lookbusy1344/mips-sim/orchestrator"
	"github.com/lookbusy1344/mips-sim/parser"
)

func TestWebSocketReceivesStepEvents(t *testing.T) {
	m := orchestrator.NewMachine(memory.DefaultBaseAddress, memory.DefaultWordCount, parser.TextBase)
	s := api.NewServer(m, 0)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/v1/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	m.Load(".text\nmain:\naddi $t0, $zero, 3\n")
	m.Step()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))

	var sawPC, sawLog bool
	for i := 0; i < 4 && !(sawPC && sawLog); i++ {
		var event api.BroadcastEvent
		if err := conn.ReadJSON(&event); err != nil {
			break
		}
		switch event.Type {
		case api.EventPC:
			sawPC = true
		case api.EventLog:
			sawLog = true
		}
	}

	require.True(t, sawPC, "expected at least one pc event")
	require.True(t, sawLog, "expected at least one log event")
}
