package main

import (
	"github.com/rs/zerolog/log"

	"github.com/apexproperties/concierge/agent/orchestrator"
	"github.com/apexproperties/concierge/agent/tool"
	"github.com/apexproperties/concierge/crm"
	"github.com/apexproperties/concierge/pkg/claude"
	configx "github.com/apexproperties/concierge/pkg/config"
	_ "github.com/apexproperties/concierge/pkg/logger/autoload"
	qstashx "github.com/apexproperties/concierge/pkg/qstash"
	"github.com/apexproperties/concierge/server"
)

func main() {
	claudeCfg := configx.MustNew[claude.Config]("ANTHROPIC")
	model := claude.NewClient(*claudeCfg)
	if !model.Configured() {
		log.Warn().Msg("no anthropic api key configured, chatbot runs in demo mode")
	}

	storeCfg := configx.MustNew[crm.StoreConfig]("DATABASE")

	var storeOpts []crm.StoreOption
	qstashCfg := configx.MustNew[qstashx.Config]("QSTASH")
	if qstashCfg.Enabled() {
		publisher := qstashx.MustNew(*qstashCfg)
		storeOpts = append(storeOpts, crm.WithEventPublisher(publisher))
	}

	store, err := crm.NewStore(*storeCfg, storeOpts...)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open crm store")
	}
	defer store.Close()

	executor, err := tool.NewExecutor(store)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build tool executor")
	}

	turns, err := orchestrator.New(model, executor)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build orchestrator")
	}

	serverCfg := configx.MustNew[server.Config]("SERVER")
	srv, err := server.New(*serverCfg, turns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build http server")
	}

	if err := srv.Run(serverCfg.ShutdownTimeout); err != nil {
		log.Fatal().Err(err).Msg("http server exited")
	}
}
