// Package server exposes a learnt grid plan over HTTP for read only queries.
package server

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/zeu5/affordances-options/grid"
	"github.com/zeu5/affordances-options/types"
)

type PlanServer struct {
	Port   int
	ctx    context.Context
	plan   *grid.Plan
	logger log.Logger
	server *http.Server
}

func NewPlanServer(ctx context.Context, port int, plan *grid.Plan, logger log.Logger) *PlanServer {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	s := &PlanServer{
		Port:   port,
		ctx:    ctx,
		plan:   plan,
		logger: logger,
	}
	s.server = &http.Server{
		Addr:    fmt.Sprintf("localhost:%d", port),
		Handler: s.Router(),
	}
	return s
}

// Router with every route of the server
func (s *PlanServer) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.GET("/health", healthHandler)
	r.GET("/options", s.handleOptions)
	r.GET("/states/:state/option", s.handleStateOption)
	r.GET("/states/:state/value", s.handleStateValue)
	r.GET("/options/:option/states/:state/action", s.handleOptionAction)
	return r
}

func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "ok"})
}

type optionInfo struct {
	ID     int           `json:"id"`
	Name   string        `json:"name"`
	Target grid.Position `json:"target"`
}

func (s *PlanServer) handleOptions(c *gin.Context) {
	env := s.plan.Env
	options := make([]optionInfo, 0, env.NumOptions())
	for _, o := range env.Options() {
		options = append(options, optionInfo{ID: int(o), Name: env.OptionName(o), Target: env.Target(o)})
	}
	c.JSON(http.StatusOK, options)
}

func (s *PlanServer) state(c *gin.Context) (int, bool) {
	state, err := strconv.Atoi(c.Param("state"))
	if err != nil || state < 0 || state >= s.plan.Env.NumStates() {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid state %q, valid states are [0, %d)", c.Param("state"), s.plan.Env.NumStates())})
		return 0, false
	}
	return state, true
}

func (s *PlanServer) handleStateOption(c *gin.Context) {
	state, ok := s.state(c)
	if !ok {
		return
	}
	option := types.PolicyAction(s.plan.OverOptions.Policy, state)
	affordable := make([]int, 0)
	if s.plan.Affordances != nil {
		for o := 0; o < s.plan.Env.NumOptions(); o++ {
			if s.plan.Affordances.At(state, o) != 0 {
				affordable = append(affordable, o)
			}
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"state":      state,
		"position":   s.plan.Env.Decode(state),
		"option":     option,
		"name":       s.plan.Env.OptionName(grid.Option(option)),
		"affordable": affordable,
	})
}

func (s *PlanServer) handleStateValue(c *gin.Context) {
	state, ok := s.state(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"state": state,
		"value": s.plan.OverOptions.Values.AtVec(state),
	})
}

func (s *PlanServer) handleOptionAction(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("option"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid option %q", c.Param("option"))})
		return
	}
	option, err := s.plan.Env.Option(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	state, ok := s.state(c)
	if !ok {
		return
	}
	action := types.PolicyAction(s.plan.OptionPolicies[option].Policy, state)
	c.JSON(http.StatusOK, gin.H{
		"option": int(option),
		"state":  state,
		"action": action,
		"name":   grid.Action(action).String(),
	})
}

// Start serving in the background until the context is cancelled
func (s *PlanServer) Start() {
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			level.Error(s.logger).Log("msg", "plan server stopped", "err", err)
		}
	}()

	go func() {
		<-s.ctx.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		s.server.Shutdown(ctx)
	}()
}
