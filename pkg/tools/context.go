package tools

import (
	"time"

	"cadbridge/pkg/bridgeclient"
)

// BridgeContext is the per-session context every tool factory closes over,
// generalized from maestro's AgentContext{Executor,ChatService,WorkDir,...}
// down to the one thing a CAD tool actually needs: a way to reach the
// bridge and a default per-call timeout.
type BridgeContext struct {
	Client      bridgeclient.Client
	ToolTimeout time.Duration
}
