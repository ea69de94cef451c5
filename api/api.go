package api

import (
	"log/slog"
	"net/http"

	"github.com/Rhymond/go-money"
	"github.com/rs/cors"

	"github.com/samuelfgs/isv-run/email"
	"github.com/samuelfgs/isv-run/payments"
	"github.com/samuelfgs/isv-run/registration"
)

type Environment int

const (
	LOCAL Environment = iota
	PROD
)

type DB interface {
	registration.Repository
}

type API struct {
	db            DB
	logger        *slog.Logger
	env           Environment
	emailSender   email.Sender
	payments      payments.Provider
	unitPrice     *money.Money
	publicBaseURL string
	emailOpts     registration.ConfirmationEmailOptions
	webhookSecret string
}

func NewAPI(
	db DB,
	logger *slog.Logger,
	env Environment,
	emailSender email.Sender,
	paymentsProvider payments.Provider,
	unitPrice *money.Money,
	publicBaseURL string,
	emailOpts registration.ConfirmationEmailOptions,
	webhookSecret string,
) *API {
	return &API{
		db:            db,
		logger:        logger,
		env:           env,
		emailSender:   emailSender,
		payments:      paymentsProvider,
		unitPrice:     unitPrice,
		publicBaseURL: publicBaseURL,
		emailOpts:     emailOpts,
		webhookSecret: webhookSecret,
	}
}

// Routes wires every endpoint onto a method-qualified mux; a request with a
// matching path but wrong method gets the 405 the payment provider and form
// expect.
func (a *API) Routes() http.Handler {
	r := http.NewServeMux()

	r.HandleFunc("POST /api/register", a.handleRegister)
	r.HandleFunc("POST /api/mercadopago/webhook", a.handleWebhook)
	r.HandleFunc("POST /api/mercadopago/webhook/{$}", a.handleWebhook)
	r.HandleFunc("GET /api/registration/{mercadoPagoId}", a.handleLookup)
	r.HandleFunc("POST /api/send-email/{id}", a.handleResend)
	r.HandleFunc("GET /api/registrations", a.handleListRegistrations)

	return useMiddlewares(r,
		a.corsMiddleware(),
		a.loggingMiddleware(),
	)
}

func (a *API) corsMiddleware() middlewareFunc {
	var serverCors *cors.Cors

	switch a.env {
	case PROD:
		serverCors = cors.New(cors.Options{
			AllowedOrigins: []string{a.publicBaseURL},
			AllowedMethods: []string{"GET", "POST"},
			MaxAge:         300,
		})
	default:
		serverCors = cors.AllowAll()
	}

	return serverCors.Handler
}
