package app

import (
	"go.uber.org/fx"

	"github.com/bmjaya/printworks/internal/cache"
	"github.com/bmjaya/printworks/internal/config"
	"github.com/bmjaya/printworks/internal/database"
	"github.com/bmjaya/printworks/internal/logger"
	"github.com/bmjaya/printworks/internal/messaging"
	"github.com/bmjaya/printworks/internal/observability"
	repositoryemployee "github.com/bmjaya/printworks/internal/repository/employee"
	repositoryorder "github.com/bmjaya/printworks/internal/repository/order"
	repositoryproduction "github.com/bmjaya/printworks/internal/repository/production"
	repositoryuser "github.com/bmjaya/printworks/internal/repository/user"
	httpserver "github.com/bmjaya/printworks/internal/server/http"
	serviceauth "github.com/bmjaya/printworks/internal/service/auth"
	serviceemployee "github.com/bmjaya/printworks/internal/service/employee"
	serviceorder "github.com/bmjaya/printworks/internal/service/order"
	serviceproduction "github.com/bmjaya/printworks/internal/service/production"
	"github.com/bmjaya/printworks/internal/storage"
	transporthttp "github.com/bmjaya/printworks/internal/transport/http"
	"github.com/bmjaya/printworks/internal/worker"
	workerevents "github.com/bmjaya/printworks/internal/worker/events"
)

// Core provides the foundational modules shared across executables.
var Core = fx.Options(
	config.Module,
	cache.Module,
	database.Module,
	logger.Module,
	messaging.Module,
	observability.Module,
	storage.Module,
	repositoryuser.Module,
	repositoryemployee.Module,
	repositoryorder.Module,
	repositoryproduction.Module,
	serviceauth.Module,
	serviceemployee.Module,
	serviceorder.Module,
	serviceproduction.Module,
)

// HTTP wires the HTTP transport on top of the core modules.
var HTTP = fx.Options(
	Core,
	httpserver.Module,
	transporthttp.Module,
)

// Worker exposes background worker processing.
var Worker = fx.Options(
	Core,
	worker.Module,
	workerevents.Module,
)

// Module is the default application wiring (HTTP only).
var Module = HTTP
