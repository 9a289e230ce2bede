package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/sweater-ventures/sprinkler/app"
	"github.com/sweater-ventures/sprinkler/db"
)

func init() {
	registerRoute(func(app *app.Application, router *http.ServeMux) {
		router.Handle("GET /v1/environments/{environmentId}/subscribers/{subscriberId}", routeHandler(app, getSubscriberHandler))
	})
}

type SubscriberResponse struct {
	ID           string          `json:"id"`
	SubscriberID string          `json:"subscriberId"`
	FirstName    *string         `json:"firstName,omitempty"`
	LastName     *string         `json:"lastName,omitempty"`
	Email        *string         `json:"email,omitempty"`
	Phone        *string         `json:"phone,omitempty"`
	Avatar       *string         `json:"avatar,omitempty"`
	Locale       *string         `json:"locale,omitempty"`
	Data         json.RawMessage `json:"data,omitempty"`
}

func getSubscriberHandler(application *app.Application, w http.ResponseWriter, r *http.Request) {
	environmentID, err := parseScopeID(r.PathValue("environmentId"))
	if err != nil {
		writeJsonResponse(w, http.StatusBadRequest, map[string]string{"error": "environmentId must be a valid UUID"})
		return
	}

	subscriber, err := application.DB.GetSubscriberByExternalID(r.Context(), db.GetSubscriberByExternalIDParams{
		EnvironmentID: environmentID,
		SubscriberID:  r.PathValue("subscriberId"),
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJsonResponse(w, http.StatusNotFound, map[string]string{"error": "subscriber not found"})
			return
		}
		log(r.Context()).Error("Failed to get subscriber", "error", err)
		writeJsonResponse(w, http.StatusInternalServerError, map[string]string{"error": "Failed to retrieve subscriber"})
		return
	}

	writeJsonResponse(w, http.StatusOK, subscriberToResponse(subscriber))
}

func subscriberToResponse(s db.Subscriber) SubscriberResponse {
	optional := func(t pgtype.Text) *string {
		if !t.Valid {
			return nil
		}
		return &t.String
	}
	return SubscriberResponse{
		ID:           app.UuidToString(s.ID),
		SubscriberID: s.SubscriberID,
		FirstName:    optional(s.FirstName),
		LastName:     optional(s.LastName),
		Email:        optional(s.Email),
		Phone:        optional(s.Phone),
		Avatar:       optional(s.Avatar),
		Locale:       optional(s.Locale),
		Data:         s.Data,
	}
}
