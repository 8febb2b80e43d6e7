package ipc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"os"
	"sync"

	"log/slog"

	"ripple/internal/api"
	"ripple/internal/catalog"
	"ripple/internal/daemon"
	"ripple/internal/logging"
)

// Server exposes daemon control via JSON-RPC over a Unix domain socket.
type Server struct {
	path      string
	daemon    *daemon.Daemon
	logger    *slog.Logger
	listener  net.Listener
	rpcServer *rpc.Server

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewServer configures the IPC server at the given socket path.
func NewServer(ctx context.Context, path string, d *daemon.Daemon, logger *slog.Logger) (*Server, error) {
	if d == nil {
		return nil, errors.New("ipc server requires daemon")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	if err := os.RemoveAll(path); err != nil {
		return nil, fmt.Errorf("remove existing socket: %w", err)
	}

	listener, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listen on socket: %w", err)
	}

	rpcServer := rpc.NewServer()
	srv := &service{daemon: d, logger: logger, ctx: ctx}
	if err := rpcServer.RegisterName("Ripple", srv); err != nil {
		listener.Close()
		return nil, fmt.Errorf("register rpc service: %w", err)
	}

	serverCtx, cancel := context.WithCancel(ctx)
	return &Server{
		path:      path,
		daemon:    d,
		logger:    logger,
		listener:  listener,
		rpcServer: rpcServer,
		ctx:       serverCtx,
		cancel:    cancel,
	}, nil
}

// Serve starts accepting RPC connections until the context is canceled.
func (s *Server) Serve() {
	s.logger.Debug("IPC server listening", logging.String("socket", s.path))
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			conn, err := s.listener.Accept()
			if err != nil {
				select {
				case <-s.ctx.Done():
					return
				default:
				}
				s.logger.Warn("accept failed", logging.Error(err))
				continue
			}
			s.wg.Add(1)
			go func(c net.Conn) {
				defer s.wg.Done()
				s.rpcServer.ServeCodec(jsonrpc.NewServerCodec(c))
			}(conn)
		}
	}()
}

// Close stops the server and removes the socket file.
func (s *Server) Close() {
	s.cancel()
	if s.listener != nil {
		_ = s.listener.Close()
	}
	s.wg.Wait()
	if err := os.RemoveAll(s.path); err != nil {
		s.logger.Warn("failed to remove socket",
			logging.String("socket", s.path),
			logging.Error(err))
	}
}

type service struct {
	daemon *daemon.Daemon
	logger *slog.Logger
	ctx    context.Context
}

func (s *service) log() *slog.Logger {
	if s.logger == nil {
		return logging.NewNop()
	}
	return s.logger.With(logging.String(logging.FieldComponent, "ipc"))
}

func (s *service) Start(_ StartRequest, resp *StartResponse) error {
	s.log().Debug("daemon start requested")
	if err := s.daemon.Start(s.ctx); err != nil {
		resp.Started = false
		resp.Message = err.Error()
		return nil
	}
	resp.Started = true
	resp.Message = "daemon started"
	s.log().Info("daemon started via IPC",
		logging.String(logging.FieldEventType, "daemon_start"))
	return nil
}

func (s *service) Stop(_ StopRequest, resp *StopResponse) error {
	s.log().Debug("daemon stop requested")
	if !s.daemon.Running() {
		resp.Stopped = false
		return nil
	}
	s.daemon.Stop()
	resp.Stopped = true
	s.log().Info("daemon stopped via IPC",
		logging.String(logging.FieldEventType, "daemon_stop"))
	return nil
}

func (s *service) Status(_ StatusRequest, resp *StatusResponse) error {
	status := s.daemon.Status(s.ctx)
	resp.Running = status.Running
	resp.PID = status.PID
	resp.CatalogDBPath = status.CatalogDBPath
	resp.LockPath = status.LockFilePath
	resp.APIAddr = status.APIAddr
	resp.Stats = make(map[string]int, len(status.Stats))
	for k, v := range status.Stats {
		resp.Stats[string(k)] = v
	}
	resp.ActiveRuns = api.FromRuns(status.ActiveRuns)
	return nil
}

func (s *service) RunStart(req RunStartRequest, resp *RunStartResponse) error {
	s.log().Debug("run start requested", logging.String(logging.FieldTag, req.Tag))
	run, err := s.daemon.StartRun(s.ctx, req.Tag)
	if err != nil {
		return err
	}
	resp.Run = api.FromRun(run, false)
	s.log().Info("run started via IPC",
		logging.String(logging.FieldEventType, "run_start"),
		logging.String(logging.FieldRunID, run.ID()))
	return nil
}

func (s *service) RunStop(req RunStopRequest, resp *RunStopResponse) error {
	if req.ID == "" {
		return errors.New("run stop requires an id")
	}
	resp.Stopped = s.daemon.StopRun(req.ID)
	return nil
}

func (s *service) RunList(_ RunListRequest, resp *RunListResponse) error {
	resp.Runs = api.FromRuns(s.daemon.Runs())
	return nil
}

func (s *service) RunShow(req RunShowRequest, resp *RunShowResponse) error {
	if req.ID == "" {
		return errors.New("run show requires an id")
	}
	run := s.daemon.RunByID(req.ID)
	if run == nil {
		return fmt.Errorf("run %s not found", req.ID)
	}
	resp.Run = api.FromRun(run, true)
	return nil
}

func (s *service) ItemList(req ItemListRequest, resp *ItemListResponse) error {
	statuses := make([]catalog.Status, 0, len(req.Statuses))
	for _, status := range req.Statuses {
		parsed, ok := catalog.ParseStatus(status)
		if !ok {
			return fmt.Errorf("unknown status %q", status)
		}
		statuses = append(statuses, parsed)
	}
	items, err := s.daemon.ListItems(s.ctx, req.Tag, statuses)
	if err != nil {
		return err
	}
	resp.Items = api.FromItems(items)
	return nil
}

func (s *service) ItemShow(req ItemShowRequest, resp *ItemShowResponse) error {
	if req.ID <= 0 {
		return fmt.Errorf("invalid item id %d", req.ID)
	}
	item, err := s.daemon.GetItem(s.ctx, req.ID)
	if err != nil {
		return err
	}
	if item == nil {
		return fmt.Errorf("item %d not found", req.ID)
	}
	resp.Item = api.FromItem(item)
	return nil
}

func (s *service) ItemRemove(req ItemRemoveRequest, resp *ItemRemoveResponse) error {
	if req.ID <= 0 {
		return fmt.Errorf("invalid item id %d", req.ID)
	}
	removed, err := s.daemon.RemoveItem(s.ctx, req.ID)
	if err != nil {
		return err
	}
	resp.Removed = removed
	if removed {
		s.log().Info("item removed via IPC",
			logging.String(logging.FieldEventType, "item_remove"),
			logging.Int64(logging.FieldItemID, req.ID))
	}
	return nil
}

func (s *service) ItemSubmit(req ItemSubmitRequest, resp *ItemSubmitResponse) error {
	if req.ID <= 0 {
		return fmt.Errorf("invalid item id %d", req.ID)
	}
	item, err := s.daemon.SubmitItem(s.ctx, req.ID)
	if err != nil {
		return err
	}
	resp.Item = api.FromItem(item)
	s.log().Info("item submitted via IPC",
		logging.String(logging.FieldEventType, "item_submit"),
		logging.Int64(logging.FieldItemID, req.ID))
	return nil
}

func (s *service) ItemBoost(req ItemBoostRequest, resp *ItemBoostResponse) error {
	if req.ID <= 0 {
		return fmt.Errorf("invalid item id %d", req.ID)
	}
	item, err := s.daemon.BoostItem(s.ctx, req.ID)
	if err != nil {
		return err
	}
	resp.Item = api.FromItem(item)
	s.log().Info("item boosted via IPC",
		logging.String(logging.FieldEventType, "item_boost"),
		logging.Int64(logging.FieldItemID, req.ID))
	return nil
}

func (s *service) TargetAdd(req TargetAddRequest, resp *TargetAddResponse) error {
	targetType, ok := catalog.ParseTargetType(req.Type)
	if !ok {
		return fmt.Errorf("unknown target type %q", req.Type)
	}
	target, err := s.daemon.AddTarget(s.ctx, targetType, req.Value, req.Tag)
	if err != nil {
		return err
	}
	resp.Target = api.FromTarget(target)
	return nil
}

func (s *service) TargetList(req TargetListRequest, resp *TargetListResponse) error {
	targets, err := s.daemon.Targets(s.ctx, req.Tag)
	if err != nil {
		return err
	}
	resp.Targets = api.FromTargets(targets)
	return nil
}

func (s *service) TargetRemove(req TargetRemoveRequest, resp *TargetRemoveResponse) error {
	if req.ID <= 0 {
		return fmt.Errorf("invalid target id %d", req.ID)
	}
	removed, err := s.daemon.RemoveTarget(s.ctx, req.ID)
	if err != nil {
		return err
	}
	resp.Removed = removed
	return nil
}

func (s *service) BrandShow(_ BrandShowRequest, resp *BrandShowResponse) error {
	profile, err := s.daemon.BrandProfile(s.ctx)
	if err != nil {
		return err
	}
	resp.Profile = api.FromBrandProfile(profile)
	return nil
}

func (s *service) BrandSet(req BrandSetRequest, resp *BrandSetResponse) error {
	if err := s.daemon.SaveBrandProfile(s.ctx, api.ToBrandProfile(req.Profile)); err != nil {
		return err
	}
	resp.Saved = true
	return nil
}

func (s *service) PromptsShow(req PromptsShowRequest, resp *PromptsShowResponse) error {
	prompts, err := s.daemon.Prompts(s.ctx, req.Tag)
	if err != nil {
		return err
	}
	resp.Prompts = api.FromPromptSet(prompts)
	return nil
}

func (s *service) PromptsSet(req PromptsSetRequest, resp *PromptsSetResponse) error {
	if req.Prompts.Tag == "" {
		return errors.New("prompt set requires a tag")
	}
	if err := s.daemon.SavePrompts(s.ctx, catalog.PromptSet{
		Tag:           req.Prompts.Tag,
		RelevancyText: req.Prompts.RelevancyText,
		CommentText:   req.Prompts.CommentText,
	}); err != nil {
		return err
	}
	resp.Saved = true
	return nil
}
