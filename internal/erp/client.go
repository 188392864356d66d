// Package erp implementa el cliente HTTP hacia el API REST externo del ERP.
// Toda persistencia, validación y regla de negocio vive en ese API; este
// cliente solo adjunta el Bearer token, interpreta el sobre de respuesta
// {status, token?, data?, message?} y normaliza los fallos esperados en
// outcomes etiquetados (ver outcome.go).
package erp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/invorya/erp-admin-gateway/pkg/config"
	"github.com/invorya/erp-admin-gateway/pkg/logger"
)

// Client cliente del API del ERP. Seguro para uso concurrente; no cachea
// tokens: el token viaja como argumento en cada llamada, la sesión es dueña.
type Client struct {
	baseURL string
	http    *http.Client
	log     *logger.Logger
}

// NewClient construye el cliente a partir de la configuración.
func NewClient(cfg config.ERPConfig, log *logger.Logger) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     log.Component("erp-client"),
	}
}

// BaseURL devuelve la URL base configurada (útil en logs y tests).
func (c *Client) BaseURL() string { return c.baseURL }

// Envelope sobre uniforme de respuesta del ERP. Data queda sin interpretar
// hasta que cada operación sepa qué forma espera.
type Envelope struct {
	Status  string          `json:"status,omitempty"`
	Token   string          `json:"token,omitempty"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// RequestOptions opciones de una petición autenticada genérica.
type RequestOptions struct {
	Method string     // por defecto GET
	Body   any        // se serializa como JSON si no es nil
	Query  url.Values // query string adicional
}

// Do es el único punto de entrada de red: fusiona Content-Type JSON y el
// header Bearer en la petición y la lanza. No inspecciona el status de la
// respuesta; la interpretación de errores es del caller.
func (c *Client) Do(ctx context.Context, token, path string, opt RequestOptions) (*http.Response, error) {
	method := opt.Method
	if method == "" {
		method = http.MethodGet
	}

	endpoint := c.baseURL + path
	if len(opt.Query) > 0 {
		endpoint += "?" + opt.Query.Encode()
	}

	var body io.Reader
	if opt.Body != nil {
		raw, err := json.Marshal(opt.Body)
		if err != nil {
			return nil, fmt.Errorf("erp: serializar cuerpo: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("erp: construir petición: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return c.http.Do(req)
}

// envelopeCall lanza la petición y clasifica la respuesta en un Outcome:
//   - error de transporte -> FailTransport con mensaje genérico;
//   - 401 -> FailUnauthorized; 403 -> FailForbidden;
//   - otros 4xx -> FailValidation con el message del cuerpo, textual;
//   - 5xx o cuerpo no interpretable -> FailServer.
//
// En éxito devuelve el sobre decodificado.
func (c *Client) envelopeCall(ctx context.Context, token, path string, opt RequestOptions) Outcome[Envelope] {
	resp, err := c.Do(ctx, token, path, opt)
	if err != nil {
		c.log.Warn().Err(err).Str("path", path).Msg("fallo de transporte hacia el ERP")
		return Failure[Envelope](FailTransport, "no se pudo contactar al servidor del ERP")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		c.log.Warn().Err(err).Str("path", path).Msg("fallo leyendo respuesta del ERP")
		return Failure[Envelope](FailTransport, "no se pudo leer la respuesta del servidor")
	}

	var env Envelope
	// Un cuerpo vacío (204) o no-JSON deja el sobre en cero; el status HTTP manda.
	_ = json.Unmarshal(raw, &env)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return Success(env)
	}

	msg := env.Message
	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		if msg == "" {
			msg = "sesión inválida o expirada"
		}
		return Failure[Envelope](FailUnauthorized, msg)
	case resp.StatusCode == http.StatusForbidden:
		if msg == "" {
			msg = "no tiene permiso para esta operación"
		}
		return Failure[Envelope](FailForbidden, msg)
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		if msg == "" {
			msg = fmt.Sprintf("el servidor rechazó la petición (HTTP %d)", resp.StatusCode)
		}
		return Failure[Envelope](FailValidation, msg)
	default:
		c.log.Warn().Int("status", resp.StatusCode).Str("path", path).Msg("respuesta no exitosa del ERP")
		if msg == "" {
			msg = "error temporal del servidor, intente más tarde"
		}
		return Failure[Envelope](FailServer, msg)
	}
}
