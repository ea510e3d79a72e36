package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rosterhq/roster-api/internal/api/metrics"
	"github.com/rosterhq/roster-api/internal/core/domain"
	"github.com/rosterhq/roster-api/internal/core/ports"
)

type StudentHandler struct {
	studentService ports.StudentService
}

func NewStudentHandler(studentService ports.StudentService) *StudentHandler {
	return &StudentHandler{studentService: studentService}
}

type studentRequest struct {
	Name    string `json:"name" validate:"required"`
	Age     int    `json:"age" validate:"required,gte=15,lte=120"`
	Sex     string `json:"sex" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"required"`
	Address string `json:"address" validate:"required"`
	Major   string `json:"major" validate:"required"`
}

func (r *studentRequest) toInput() ports.StudentInput {
	return ports.StudentInput{
		Name:    r.Name,
		Age:     r.Age,
		Sex:     r.Sex,
		Email:   r.Email,
		Phone:   r.Phone,
		Address: r.Address,
		Major:   r.Major,
	}
}

// Create adds a roster record.
//
// @Summary      Create a student
// @Tags         students
// @Accept       json
// @Produce      json
// @Param        body  body      studentRequest  true  "Student details"
// @Success      201   {object}  domain.Student
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /students [post]
func (h *StudentHandler) Create(c echo.Context) error {
	var req studentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	student, err := h.studentService.Create(c.Request().Context(), req.toInput())
	if err != nil {
		return err
	}

	metrics.RosterMutationsTotal.WithLabelValues("create").Inc()
	return c.JSON(http.StatusCreated, student)
}

// Get returns one roster record.
//
// @Summary      Get a student
// @Tags         students
// @Produce      json
// @Param        id   path      string  true  "Student ID"
// @Success      200  {object}  domain.Student
// @Failure      404  {object}  map[string]string
// @Router       /students/{id} [get]
func (h *StudentHandler) Get(c echo.Context) error {
	student, err := h.studentService.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, student)
}

// List returns the whole roster.
//
// @Summary      List students
// @Tags         students
// @Produce      json
// @Success      200  {array}  domain.Student
// @Router       /students [get]
func (h *StudentHandler) List(c echo.Context) error {
	students, err := h.studentService.List(c.Request().Context())
	if err != nil {
		return err
	}
	if students == nil {
		students = []*domain.Student{}
	}
	return c.JSON(http.StatusOK, students)
}

// Update replaces the writable fields of a roster record.
//
// @Summary      Update a student
// @Tags         students
// @Accept       json
// @Produce      json
// @Param        id    path      string          true  "Student ID"
// @Param        body  body      studentRequest  true  "Student details"
// @Success      200   {object}  domain.Student
// @Failure      404   {object}  map[string]string
// @Router       /students/{id} [put]
func (h *StudentHandler) Update(c echo.Context) error {
	var req studentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	student, err := h.studentService.Update(c.Request().Context(), c.Param("id"), req.toInput())
	if err != nil {
		return err
	}

	metrics.RosterMutationsTotal.WithLabelValues("update").Inc()
	return c.JSON(http.StatusOK, student)
}

// Delete removes a roster record.
//
// @Summary      Delete a student
// @Tags         students
// @Param        id  path  string  true  "Student ID"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /students/{id} [delete]
func (h *StudentHandler) Delete(c echo.Context) error {
	if err := h.studentService.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}

	metrics.RosterMutationsTotal.WithLabelValues("delete").Inc()
	return c.NoContent(http.StatusNoContent)
}
