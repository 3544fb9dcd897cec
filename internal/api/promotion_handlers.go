package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/tavola/backoffice/internal/models"
	"github.com/tavola/backoffice/internal/repository"
	"github.com/tavola/backoffice/internal/validation"
)

// getPromotionsHandler lists promotions, optionally filtered by ?active=
func (s *Server) getPromotionsHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var active *bool

	if raw := r.URL.Query().Get("active"); raw != "" {
		parsed, err := strconv.ParseBool(raw)

		if err != nil {
			s.respondWithError(w, http.StatusBadRequest, "Invalid active filter")
			return
		}

		active = &parsed
	}

	promotions, err := s.promotionService.GetPromotions(ctx, active)

	if err != nil {
		s.logger.Error("Failed to list promotions", "error", err)
		s.respondWithError(w, http.StatusInternalServerError, "Failed to retrieve promotions")
		return
	}

	s.respondWithJSON(w, http.StatusOK, ApiResponse{Success: true, Data: promotions})
}

// createPromotionHandler creates a new promotion
func (s *Server) createPromotionHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req validation.PromotionRequest

	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	promo, err := s.promotionService.CreatePromotion(
		ctx,
		req.Name,
		req.Description,
		req.Discount,
		models.DiscountType(req.DiscountType),
		req.ValidFrom,
		req.ValidUntil,
		req.Active,
	)

	if err != nil {
		s.logger.Error("Failed to create promotion", "error", err)
		s.respondWithError(w, http.StatusInternalServerError, "Failed to create promotion")
		return
	}

	s.respondWithJSON(w, http.StatusCreated, ApiResponse{Success: true, Data: promo})
}

// updatePromotionHandler replaces a promotion's fields
func (s *Server) updatePromotionHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	vars := mux.Vars(r)
	id := vars["id"]

	var req validation.PromotionRequest

	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	promo, err := s.promotionService.UpdatePromotion(
		ctx,
		id,
		req.Name,
		req.Description,
		req.Discount,
		models.DiscountType(req.DiscountType),
		req.ValidFrom,
		req.ValidUntil,
		req.Active,
	)

	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondWithError(w, http.StatusNotFound, "Promotion not found")
			return
		}
		s.logger.Error("Failed to update promotion", "error", err, "promotionID", id)
		s.respondWithError(w, http.StatusInternalServerError, "Failed to update promotion")
		return
	}

	s.respondWithJSON(w, http.StatusOK, ApiResponse{Success: true, Data: promo})
}

// togglePromotionHandler flips a promotion's active flag
func (s *Server) togglePromotionHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	vars := mux.Vars(r)
	id := vars["id"]

	var req validation.TogglePromotionRequest

	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	promo, err := s.promotionService.TogglePromotion(ctx, id, req.Active)

	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondWithError(w, http.StatusNotFound, "Promotion not found")
			return
		}
		s.logger.Error("Failed to toggle promotion", "error", err, "promotionID", id)
		s.respondWithError(w, http.StatusInternalServerError, "Failed to toggle promotion")
		return
	}

	s.respondWithJSON(w, http.StatusOK, ApiResponse{Success: true, Data: promo})
}

// deletePromotionHandler removes a promotion
func (s *Server) deletePromotionHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	vars := mux.Vars(r)
	id := vars["id"]

	if err := s.promotionService.DeletePromotion(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondWithError(w, http.StatusNotFound, "Promotion not found")
			return
		}
		s.logger.Error("Failed to delete promotion", "error", err, "promotionID", id)
		s.respondWithError(w, http.StatusInternalServerError, "Failed to delete promotion")
		return
	}

	s.respondWithJSON(w, http.StatusOK, ApiResponse{Success: true})
}
