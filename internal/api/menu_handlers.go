package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/tavola/backoffice/internal/repository"
	"github.com/tavola/backoffice/internal/validation"
)

// getMenuItemsHandler lists menu items, optionally filtered by ?category=
// and ?available=
func (s *Server) getMenuItemsHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	category := r.URL.Query().Get("category")

	var available *bool

	if raw := r.URL.Query().Get("available"); raw != "" {
		parsed, err := strconv.ParseBool(raw)

		if err != nil {
			s.respondWithError(w, http.StatusBadRequest, "Invalid available filter")
			return
		}

		available = &parsed
	}

	items, err := s.menuService.GetItems(ctx, category, available)

	if err != nil {
		s.logger.Error("Failed to list menu items", "error", err)
		s.respondWithError(w, http.StatusInternalServerError, "Failed to retrieve menu items")
		return
	}

	s.respondWithJSON(w, http.StatusOK, ApiResponse{Success: true, Data: items})
}

// getMenuCategoriesHandler returns the distinct menu categories
func (s *Server) getMenuCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	categories, err := s.menuService.GetCategories(ctx)

	if err != nil {
		s.logger.Error("Failed to list menu categories", "error", err)
		s.respondWithError(w, http.StatusInternalServerError, "Failed to retrieve categories")
		return
	}

	s.respondWithJSON(w, http.StatusOK, ApiResponse{Success: true, Data: categories})
}

// createMenuItemHandler adds an item to the menu
func (s *Server) createMenuItemHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req validation.MenuItemRequest

	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	item, err := s.menuService.CreateItem(ctx, req.Name, req.Description, req.Price, req.Category, req.Available, req.ImageURL)

	if err != nil {
		s.logger.Error("Failed to create menu item", "error", err)
		s.respondWithError(w, http.StatusInternalServerError, "Failed to create menu item")
		return
	}

	s.respondWithJSON(w, http.StatusCreated, ApiResponse{Success: true, Data: item})
}

// updateMenuItemHandler replaces a menu item's fields
func (s *Server) updateMenuItemHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	vars := mux.Vars(r)
	id := vars["id"]

	var req validation.MenuItemRequest

	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	item, err := s.menuService.UpdateItem(ctx, id, req.Name, req.Description, req.Price, req.Category, req.Available, req.ImageURL)

	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondWithError(w, http.StatusNotFound, "Menu item not found")
			return
		}
		s.logger.Error("Failed to update menu item", "error", err, "itemID", id)
		s.respondWithError(w, http.StatusInternalServerError, "Failed to update menu item")
		return
	}

	s.respondWithJSON(w, http.StatusOK, ApiResponse{Success: true, Data: item})
}

// deleteMenuItemHandler removes a menu item
func (s *Server) deleteMenuItemHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	vars := mux.Vars(r)
	id := vars["id"]

	if err := s.menuService.DeleteItem(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondWithError(w, http.StatusNotFound, "Menu item not found")
			return
		}
		s.logger.Error("Failed to delete menu item", "error", err, "itemID", id)
		s.respondWithError(w, http.StatusInternalServerError, "Failed to delete menu item")
		return
	}

	s.respondWithJSON(w, http.StatusOK, ApiResponse{Success: true})
}
