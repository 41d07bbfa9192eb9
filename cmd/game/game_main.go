package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	nethttp "net/http"
	"os/signal"
	"syscall"
	"time"

	protoactor "github.com/asynkron/protoactor-go/actor"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	gameactors "SixKingdoms/internal/game/actors"
	"SixKingdoms/internal/game/entity"
	gamehandler "SixKingdoms/internal/game/interfaces/handler"
	"SixKingdoms/internal/game/service"
	"SixKingdoms/internal/shared/gameconfig/territory"
	"SixKingdoms/internal/shared/logs"
	"SixKingdoms/internal/shared/serverconfig"
	"SixKingdoms/internal/shared/session"
	transporthttp "SixKingdoms/internal/shared/transport/http"
	"SixKingdoms/internal/shared/transport/ws"
	"SixKingdoms/internal/shared/utils"
	"SixKingdoms/modules/kit/logx"
)

const gameActorName = "game"

func main() {
	serverconfig.Load("")
	if err := logs.Init("game", serverconfig.Conf.Log); err != nil {
		panic(err)
	}
	logs.Info("conf", zap.Any("conf", serverconfig.Conf))

	territory.Load()

	serverConfig := serverconfig.Conf.GameServer
	gameHost := serverConfig.Host
	if gameHost == "" {
		gameHost = "0.0.0.0"
	}
	gameServerAddr := fmt.Sprintf("%s:%d", gameHost, serverConfig.Port)

	ids, err := utils.NewSnowflake(serverconfig.Conf.Logic.ServerID)
	if err != nil {
		logs.Fatal("init snowflake failed", zap.Error(err))
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	world := entity.NewWorld(territory.Entries(), serverconfig.Conf.Logic.MapSize, rng)
	sessMgr := session.NewSessMgr()
	tickEvery := time.Duration(serverconfig.Conf.Logic.TickIntervalMS) * time.Millisecond

	system := protoactor.NewActorSystem()
	root := system.Root
	props := protoactor.PropsFromProducer(func() protoactor.Actor {
		return gameactors.NewGameActor(world, service.NewBattleService(nil), sessMgr, tickEvery)
	})
	gamePID, err := root.SpawnNamed(props, gameActorName)
	if err != nil {
		logs.Fatal("spawn game actor failed", zap.Error(err))
	}
	logs.Info("game actor started", zap.String("pid", gamePID.String()))

	baseLogger := logx.NewZapLogger(logs.Logger())
	wsRouter := ws.NewRouter(baseLogger)
	gamehandler.NewGame(root, gamePID, ids, sessMgr).RegisterRoutes(wsRouter)

	httpServer := transporthttp.NewHttpServer(gameServerAddr, nil, baseLogger)
	wsServer := ws.NewServer(wsRouter, serverConfig.NeedSecret, baseLogger)
	httpServer.Engine().Any("/ws", gin.WrapH(wsServer))
	httpServer.Engine().Any("/ws/*any", gin.WrapH(wsServer))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		if err := httpServer.Start(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			errCh <- fmt.Errorf("game server start failed: %w", err)
			return
		}
		errCh <- nil
	}()
	logs.Info("game server listening", zap.String("addr", gameServerAddr))

	select {
	case <-ctx.Done():
		logs.Info("收到退出信号，准备优雅退出")
	case err := <-errCh:
		if err != nil {
			logs.Error("服务异常退出", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(shutdownCtx)
	system.Shutdown()
}
