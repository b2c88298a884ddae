package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"galli2globe/internal/catalog"
	"galli2globe/internal/metrics"
	"galli2globe/internal/models"
	"galli2globe/internal/service"
)

type userResponse struct {
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	TravelStyle string   `json:"travelStyle,omitempty"`
	Country     string   `json:"country,omitempty"`
	Phone       string   `json:"phone,omitempty"`
	JoinedDate  string   `json:"joinedDate"`
	Wishlist    []string `json:"wishlist"`
}

type authResponse struct {
	User  userResponse `json:"user"`
	Token string       `json:"token"`
}

func toUserResponse(u *models.User) userResponse {
	wishlist := u.Wishlist
	if wishlist == nil {
		wishlist = []string{}
	}
	return userResponse{
		Name:        u.Name,
		Email:       u.Email,
		TravelStyle: u.TravelStyle,
		Country:     u.Country,
		Phone:       u.Phone,
		JoinedDate:  u.JoinedDate.Format(time.RFC3339),
		Wishlist:    wishlist,
	}
}

func (s *HTTPServer) handleSignUp(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	metrics.IncHTTP("auth")

	var input models.SignUpInput
	if err := decodeBody(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, sess, err := s.accounts.SignUp(r.Context(), input)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, authResponse{User: toUserResponse(user), Token: sess.Token})
}

func (s *HTTPServer) handleLogIn(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	metrics.IncHTTP("auth")

	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, sess, err := s.accounts.LogIn(r.Context(), body.Email, body.Password)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{User: toUserResponse(user), Token: sess.Token})
}

func (s *HTTPServer) handleLogOut(w http.ResponseWriter, r *http.Request, sess *models.Session) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	metrics.IncHTTP("auth")

	if err := s.accounts.LogOut(r.Context(), sess); err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged_out"})
}

func (s *HTTPServer) handleProfile(w http.ResponseWriter, r *http.Request, sess *models.Session) {
	metrics.IncHTTP("profile")

	switch r.Method {
	case http.MethodGet:
		user, err := s.accounts.CurrentUser(r.Context(), sess)
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toUserResponse(user))

	case http.MethodPatch, http.MethodPut:
		var update models.ProfileUpdate
		if err := decodeBody(r, &update); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		user, err := s.accounts.UpdateProfile(r.Context(), sess, update)
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toUserResponse(user))

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handleBookings(w http.ResponseWriter, r *http.Request, sess *models.Session) {
	metrics.IncHTTP("bookings")

	switch r.Method {
	case http.MethodGet:
		var (
			bookings []models.Booking
			err      error
		)
		if r.URL.Query().Get("scope") == "all" {
			bookings, err = s.bookings.ListBookings(r.Context())
		} else {
			bookings, err = s.bookings.UserBookings(r.Context(), sess)
		}
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"bookings": bookings})

	case http.MethodPost:
		var input models.BookingInput
		if err := decodeBody(r, &input); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		booking, err := s.bookings.CreateBooking(r.Context(), sess, input)
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, booking)

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handleBookingByID(w http.ResponseWriter, r *http.Request, sess *models.Session) {
	metrics.IncHTTP("bookings")

	const prefix = "/api/v1/bookings/"
	rest := strings.TrimPrefix(r.URL.Path, prefix)

	if id, ok := strings.CutSuffix(rest, "/cancel"); ok {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		if err := s.bookings.CancelBooking(r.Context(), sess, id); err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": models.StatusCancelled})
		return
	}

	id := strings.TrimSpace(rest)
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	if r.Method != http.MethodDelete {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if err := s.bookings.DeleteBooking(r.Context(), sess, id); err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *HTTPServer) handleExport(w http.ResponseWriter, r *http.Request, sess *models.Session) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	metrics.IncHTTP("export")

	bookings, err := s.bookings.ListBookings(r.Context())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	fileName := fmt.Sprintf("bookings_%s.xlsx", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	if err := s.exporter.WriteBookings(w, bookings); err != nil {
		s.logger.Error().Err(err).Msg("bookings export failed")
	}
}

func (s *HTTPServer) handleDestinations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	metrics.IncHTTP("destinations")

	destinations := s.catalog.All()

	q := r.URL.Query()
	destinations = catalog.FilterByTag(destinations, strings.TrimSpace(q.Get("tag")))
	if rawMax := strings.TrimSpace(q.Get("max_price")); rawMax != "" {
		maxPrice, err := strconv.ParseInt(rawMax, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid max_price")
			return
		}
		destinations = catalog.FilterByMaxPrice(destinations, maxPrice)
	}
	destinations = catalog.SortBy(destinations, strings.TrimSpace(q.Get("sort")))

	writeJSON(w, http.StatusOK, map[string]any{"destinations": destinations})
}

func (s *HTTPServer) handleCurrency(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("currency")

	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]any{
			"selected": s.currency.Current(r.Context()),
			"codes":    s.currency.Codes(),
		})

	case http.MethodPut, http.MethodPost:
		var body struct {
			Code string `json:"code"`
		}
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if err := s.currency.Set(r.Context(), body.Code); err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"selected": body.Code})

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func decodeBody(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return errors.New("invalid JSON body")
	}
	return nil
}

// writeServiceError maps service sentinels onto HTTP status codes.
func (s *HTTPServer) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrTermsNotAccepted),
		errors.Is(err, service.ErrUnknownCurrency):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrUnknownEmail),
		errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrNoAccount),
		errors.Is(err, service.ErrBookingNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrBookingNotCancelled):
		writeError(w, http.StatusConflict, err.Error())
	default:
		s.logger.Error().Err(err).Msg("internal error")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
