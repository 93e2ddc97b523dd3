package app

import (
	"fmt"
	"net/http"

	"github.com/kbukum/userservice/auth/jwt"
	"github.com/kbukum/userservice/auth/keys"
	"github.com/kbukum/userservice/auth/password"
	"github.com/kbukum/userservice/authz"
	"github.com/kbukum/userservice/clients/otp"
	"github.com/kbukum/userservice/clients/userdata"
	"github.com/kbukum/userservice/component"
	"github.com/kbukum/userservice/httpclient"
	"github.com/kbukum/userservice/kafka"
	"github.com/kbukum/userservice/kafka/producer"
	"github.com/kbukum/userservice/logger"
	"github.com/kbukum/userservice/login"
	"github.com/kbukum/userservice/notification"
	"github.com/kbukum/userservice/observability"
	"github.com/kbukum/userservice/recovery"
	"github.com/kbukum/userservice/server"
	"github.com/kbukum/userservice/server/endpoint"
	"github.com/kbukum/userservice/server/middleware"
	"github.com/kbukum/userservice/users"
)

// Option overrides a collaborator Build would otherwise create from config.
type Option func(*options)

type options struct {
	keys    *keys.Store
	sender  notification.Sender
	metrics *observability.Metrics
	version string
}

// WithKeyStore uses s instead of loading keys from the configured paths.
func WithKeyStore(s *keys.Store) Option {
	return func(o *options) { o.keys = s }
}

// WithSender delivers notifications through s instead of Kafka or the log.
func WithSender(s notification.Sender) Option {
	return func(o *options) { o.sender = s }
}

// WithMetrics records on m instead of instruments from the global meter.
func WithMetrics(m *observability.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithVersion sets the version reported by the health endpoints.
func WithVersion(v string) Option {
	return func(o *options) { o.version = v }
}

// Service is the assembled user service.
type Service struct {
	Server   *server.Server
	Notifier *notification.Notifier

	components []component.Component
}

// Components returns the lifecycle components in start order.
func (s *Service) Components() []component.Component {
	return s.components
}

// Handler returns the root HTTP handler.
func (s *Service) Handler() http.Handler {
	return s.Server.Handler()
}

// Build wires the service from cfg. cfg must already have defaults applied
// and be valid. health backs the readiness probe.
func Build(cfg *Config, log *logger.Logger, health endpoint.HealthChecker, opts ...Option) (*Service, error) {
	o := options{version: cfg.Version}
	for _, opt := range opts {
		opt(&o)
	}

	metrics := o.metrics
	if metrics == nil {
		m, err := observability.NewMetrics(observability.Meter())
		if err != nil {
			return nil, fmt.Errorf("metrics: %w", err)
		}
		metrics = m
	}

	svc := &Service{}
	svc.components = append(svc.components, observability.NewComponent(cfg.Observability, observability.ServiceInfo{
		Name:        cfg.Name,
		Version:     cfg.Version,
		Environment: cfg.Environment,
	}))

	store := o.keys
	if store == nil {
		store = keys.NewStore(cfg.Auth.Keys, log)
	}
	svc.components = append(svc.components, keys.NewComponent(store))

	issuer := jwt.NewIssuer(cfg.Auth.JWT, store)
	verifier := jwt.NewVerifier(cfg.Auth.JWT, store)
	hasher := password.NewHasher(cfg.Auth.Password)

	dataHTTP, err := httpclient.New(cfg.DataService, httpclient.WithMetrics(metrics), httpclient.WithLogger(log))
	if err != nil {
		return nil, err
	}
	otpHTTP, err := httpclient.New(cfg.OtpService, httpclient.WithMetrics(metrics), httpclient.WithLogger(log))
	if err != nil {
		return nil, err
	}
	userStore := userdata.New(dataHTTP)
	otps := otp.New(otpHTTP)

	sender, backend := o.sender, "custom"
	if sender == nil {
		if cfg.Kafka.Enabled {
			p, err := producer.New(cfg.Kafka, log)
			if err != nil {
				return nil, err
			}
			kc := kafka.NewComponent(cfg.Kafka, log)
			kc.SetProducer(p)
			svc.components = append(svc.components, kc)
			sender, backend = notification.NewKafkaSender(p), "kafka:"+p.Topic()
		} else {
			sender, backend = notification.NewLogSender(log), "log"
		}
	}
	svc.Notifier = notification.New(cfg.Notification, sender,
		notification.WithMetrics(metrics),
		notification.WithLogger(log),
	)
	// Registered after Kafka so in-flight events drain before the producer closes.
	svc.components = append(svc.components, notification.NewComponent(svc.Notifier, backend))

	srv := server.New(cfg.Server, log)
	srv.ApplyMiddleware()
	srv.GinEngine().Use(middleware.Authenticate(middleware.AuthConfig{
		Routes:   authz.NewRouteGate(authz.DefaultRoutePolicy(), cfg.Server.ContextPath),
		Verifier: verifier,
		Metrics:  metrics,
		Log:      log,
	}))
	srv.RegisterProbes(o.version, health)

	h := handlers{
		login:    login.NewHandler(login.NewService(userStore, hasher, issuer, svc.Notifier, metrics, log)),
		recovery: recovery.NewHandler(recovery.NewOrchestrator(userStore, otps, hasher, svc.Notifier, log)),
		users: users.NewHandler(
			users.NewService(userStore, hasher, svc.Notifier, log),
			cfg.Server.ContextPath+usersPath,
		),
		owner: middleware.RequireOwner(authz.NewOwnershipGuard(verifier), "id"),
		limit: middleware.RateLimit(cfg.Server.RateLimit, middleware.IPBasedKey),
	}
	registerRoutes(srv.API(), h)

	svc.Server = srv
	svc.components = append(svc.components, server.NewComponent(srv))
	return svc, nil
}
