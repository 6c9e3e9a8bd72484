package directoryhandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"

	"github.com/GimTech1/SistemadeRH-sub002/internal/domain/audit"
	"github.com/GimTech1/SistemadeRH-sub002/internal/domain/auth"
	"github.com/GimTech1/SistemadeRH-sub002/internal/domain/directory"
	"github.com/GimTech1/SistemadeRH-sub002/internal/platform/db"
	"github.com/GimTech1/SistemadeRH-sub002/internal/transport/http/api"
	"github.com/GimTech1/SistemadeRH-sub002/internal/transport/http/middleware"
	"github.com/GimTech1/SistemadeRH-sub002/internal/transport/http/shared"
)

type Handler struct {
	Store *directory.Store
	Perms middleware.PermissionStore
	Audit *audit.Service
}

func NewHandler(store *directory.Store, perms middleware.PermissionStore, auditSvc *audit.Service) *Handler {
	return &Handler{Store: store, Perms: perms, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/profiles", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermProfilesRead, h.Perms)).Get("/", h.handleListProfiles)
		r.With(middleware.RequirePermission(auth.PermProfilesWrite, h.Perms)).Post("/", h.handleCreateProfile)
		r.With(middleware.RequirePermission(auth.PermProfilesRead, h.Perms)).Get("/{profileID}", h.handleGetProfile)
		r.With(middleware.RequirePermission(auth.PermProfilesRead, h.Perms)).Put("/{profileID}", h.handleUpdateProfile)
		r.With(middleware.RequirePermission(auth.PermRolesManage, h.Perms)).Put("/{profileID}/role", h.handleUpdateRole)
		r.With(middleware.RequirePermission(auth.PermProfilesWrite, h.Perms)).Delete("/{profileID}", h.handleDeactivateProfile)
	})
	r.Route("/departments", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermDepartmentsRead, h.Perms)).Get("/", h.handleListDepartments)
		r.With(middleware.RequirePermission(auth.PermDepartmentsRead, h.Perms)).Get("/tree", h.handleDepartmentTree)
		r.With(middleware.RequirePermission(auth.PermDepartmentsWrite, h.Perms)).Post("/", h.handleCreateDepartment)
		r.With(middleware.RequirePermission(auth.PermDepartmentsWrite, h.Perms)).Put("/{departmentID}", h.handleUpdateDepartment)
		r.With(middleware.RequirePermission(auth.PermDepartmentsWrite, h.Perms)).Delete("/{departmentID}", h.handleDeleteDepartment)
	})
}

// redactForCaller trims sensitive personal fields from profiles the caller
// can see in listings but does not own or manage.
func redactForCaller(caller auth.UserContext, profile directory.Profile) directory.Profile {
	if caller.Role == auth.RoleAdmin || caller.UserID == profile.ID {
		return profile
	}
	profile.CPF = ""
	profile.CEP = ""
	profile.Phone = ""
	return profile
}

func (h *Handler) handleListProfiles(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	page := shared.ParsePagination(r, 50, 200)
	departmentID := r.URL.Query().Get("departmentId")

	switch user.Role {
	case auth.RoleAdmin:
		// unrestricted
	case auth.RoleManager:
		departmentID = user.DepartmentID
	default:
		profile, err := h.Store.GetProfile(r.Context(), user.UserID)
		if err != nil {
			api.Fail(w, http.StatusInternalServerError, "profile_list_failed", "failed to list profiles", middleware.GetRequestID(r.Context()))
			return
		}
		api.Success(w, []directory.Profile{profile}, middleware.GetRequestID(r.Context()))
		return
	}

	profiles, err := h.Store.ListProfiles(r.Context(), departmentID, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "profile_list_failed", "failed to list profiles", middleware.GetRequestID(r.Context()))
		return
	}
	for i := range profiles {
		profiles[i] = redactForCaller(user, profiles[i])
	}
	api.Success(w, profiles, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	profileID := chi.URLParam(r, "profileID")
	profile, err := h.Store.GetProfile(r.Context(), profileID)
	if errors.Is(err, pgx.ErrNoRows) {
		api.Fail(w, http.StatusNotFound, "not_found", "profile not found", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "profile_get_failed", "failed to load profile", middleware.GetRequestID(r.Context()))
		return
	}

	if !directory.CanViewProfile(user, profile.ID, profile.DepartmentID) {
		api.Fail(w, http.StatusForbidden, "forbidden", "no access to this profile", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, redactForCaller(user, profile), middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload struct {
		FullName     string `json:"fullName"`
		Email        string `json:"email"`
		Password     string `json:"password"`
		Role         string `json:"role"`
		DepartmentID string `json:"departmentId"`
		Position     string `json:"position"`
		Phone        string `json:"phone"`
		CPF          string `json:"cpf"`
		CEP          string `json:"cep"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("fullName", payload.FullName, "full name is required")
	v.Required("email", payload.Email, "email is required")
	v.Required("password", payload.Password, "password is required")
	if len(payload.Password) > 0 && len(payload.Password) < 8 {
		v.Add("password", "must be at least 8 characters")
	}
	if payload.Role == "" {
		payload.Role = auth.RoleEmployee
	}
	if !auth.ValidRole(payload.Role) {
		v.Add("role", "must be one of admin, gerente, funcionario")
	}
	v.CPF("cpf", payload.CPF)
	v.CEP("cep", payload.CEP)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	hash, err := auth.HashPassword(payload.Password)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "profile_create_failed", "failed to create profile", middleware.GetRequestID(r.Context()))
		return
	}

	id, err := h.Store.CreateProfile(r.Context(), directory.NewProfile{
		FullName:     payload.FullName,
		Email:        payload.Email,
		PasswordHash: hash,
		Role:         payload.Role,
		DepartmentID: payload.DepartmentID,
		Position:     payload.Position,
		Phone:        payload.Phone,
		CPF:          payload.CPF,
		CEP:          payload.CEP,
	})
	if db.IsUniqueViolation(err) {
		api.Fail(w, http.StatusConflict, "email_taken", "a profile with this email already exists", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "profile_create_failed", "failed to create profile", middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, "profile.create", "profile", id, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, map[string]any{"email": payload.Email, "role": payload.Role}); err != nil {
		slog.Warn("audit record failed", "action", "profile.create", "err", err)
	}
	api.Created(w, map[string]any{"id": id}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	profileID := chi.URLParam(r, "profileID")
	if !directory.CanEditProfile(user, profileID) {
		api.Fail(w, http.StatusForbidden, "forbidden", "no access to this profile", middleware.GetRequestID(r.Context()))
		return
	}

	var payload struct {
		FullName     string `json:"fullName"`
		DepartmentID string `json:"departmentId"`
		Position     string `json:"position"`
		Phone        string `json:"phone"`
		CEP          string `json:"cep"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.CEP("cep", payload.CEP)
	if user.Role == auth.RoleAdmin {
		v.Required("fullName", payload.FullName, "full name is required")
	}
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	if user.Role == auth.RoleAdmin {
		if err := h.Store.UpdateProfile(r.Context(), profileID, directory.ProfileUpdate{
			FullName:     payload.FullName,
			DepartmentID: payload.DepartmentID,
			Position:     payload.Position,
			Phone:        payload.Phone,
			CEP:          payload.CEP,
		}); err != nil {
			api.Fail(w, http.StatusInternalServerError, "profile_update_failed", "failed to update profile", middleware.GetRequestID(r.Context()))
			return
		}
	} else {
		// Self-service covers contact fields only.
		if err := h.Store.UpdateContact(r.Context(), profileID, payload.Phone, payload.CEP); err != nil {
			api.Fail(w, http.StatusInternalServerError, "profile_update_failed", "failed to update profile", middleware.GetRequestID(r.Context()))
			return
		}
	}

	if err := h.Audit.Record(r.Context(), user.UserID, "profile.update", "profile", profileID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, payload); err != nil {
		slog.Warn("audit record failed", "action", "profile.update", "err", err)
	}
	api.Success(w, map[string]any{"updated": true}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateRole(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	profileID := chi.URLParam(r, "profileID")
	var payload struct {
		Role string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	if !auth.ValidRole(payload.Role) {
		api.Fail(w, http.StatusBadRequest, "invalid_role", "role must be one of admin, gerente, funcionario", middleware.GetRequestID(r.Context()))
		return
	}
	if profileID == user.UserID {
		api.Fail(w, http.StatusConflict, "self_demotion", "cannot change your own role", middleware.GetRequestID(r.Context()))
		return
	}

	updated, err := h.Store.UpdateRole(r.Context(), profileID, payload.Role)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "role_update_failed", "failed to update role", middleware.GetRequestID(r.Context()))
		return
	}
	if !updated {
		api.Fail(w, http.StatusNotFound, "not_found", "profile not found", middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, "profile.role_change", "profile", profileID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, map[string]any{"role": payload.Role}); err != nil {
		slog.Warn("audit record failed", "action", "profile.role_change", "err", err)
	}
	api.Success(w, map[string]any{"updated": true, "role": payload.Role}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDeactivateProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	profileID := chi.URLParam(r, "profileID")
	if profileID == user.UserID {
		api.Fail(w, http.StatusConflict, "self_deactivation", "cannot deactivate your own profile", middleware.GetRequestID(r.Context()))
		return
	}

	deactivated, err := h.Store.DeactivateProfile(r.Context(), profileID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "profile_deactivate_failed", "failed to deactivate profile", middleware.GetRequestID(r.Context()))
		return
	}
	if !deactivated {
		api.Fail(w, http.StatusNotFound, "not_found", "profile not found", middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, "profile.deactivate", "profile", profileID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, nil); err != nil {
		slog.Warn("audit record failed", "action", "profile.deactivate", "err", err)
	}
	api.Success(w, map[string]any{"deactivated": true}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListDepartments(w http.ResponseWriter, r *http.Request) {
	departments, err := h.Store.ListDepartments(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "department_list_failed", "failed to list departments", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, departments, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDepartmentTree(w http.ResponseWriter, r *http.Request) {
	departments, err := h.Store.ListDepartments(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "department_list_failed", "failed to list departments", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, directory.BuildTree(departments), middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateDepartment(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload struct {
		Name      string `json:"name"`
		ManagerID string `json:"managerId"`
		ParentID  string `json:"parentId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("name", payload.Name, "name is required")
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	id, err := h.Store.CreateDepartment(r.Context(), payload.Name, payload.ManagerID, payload.ParentID)
	if db.IsUniqueViolation(err) {
		api.Fail(w, http.StatusConflict, "department_exists", "a department with this name already exists", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "department_create_failed", "failed to create department", middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, "department.create", "department", id, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, payload); err != nil {
		slog.Warn("audit record failed", "action", "department.create", "err", err)
	}
	api.Created(w, map[string]any{"id": id}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateDepartment(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	departmentID := chi.URLParam(r, "departmentID")
	if !directory.CanEditDepartment(user, departmentID) {
		api.Fail(w, http.StatusForbidden, "forbidden", "no access to this department", middleware.GetRequestID(r.Context()))
		return
	}

	var payload struct {
		Name      string `json:"name"`
		ManagerID string `json:"managerId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("name", payload.Name, "name is required")
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	updated, err := h.Store.UpdateDepartment(r.Context(), departmentID, payload.Name, payload.ManagerID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "department_update_failed", "failed to update department", middleware.GetRequestID(r.Context()))
		return
	}
	if !updated {
		api.Fail(w, http.StatusNotFound, "not_found", "department not found", middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, "department.update", "department", departmentID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, payload); err != nil {
		slog.Warn("audit record failed", "action", "department.update", "err", err)
	}
	api.Success(w, map[string]any{"updated": true}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDeleteDepartment(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	if user.Role != auth.RoleAdmin {
		api.Fail(w, http.StatusForbidden, "forbidden", "only admins can delete departments", middleware.GetRequestID(r.Context()))
		return
	}

	departmentID := chi.URLParam(r, "departmentID")
	deleted, err := h.Store.DeleteDepartment(r.Context(), departmentID)
	switch {
	case db.IsForeignKeyViolation(err):
		api.Fail(w, http.StatusConflict, "department_in_use", "department still has members or children", middleware.GetRequestID(r.Context()))
		return
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "department_delete_failed", "failed to delete department", middleware.GetRequestID(r.Context()))
		return
	}
	if !deleted {
		api.Fail(w, http.StatusNotFound, "not_found", "department not found", middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, "department.delete", "department", departmentID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, nil); err != nil {
		slog.Warn("audit record failed", "action", "department.delete", "err", err)
	}
	api.Success(w, map[string]any{"deleted": true}, middleware.GetRequestID(r.Context()))
}
