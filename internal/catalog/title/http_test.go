// Copyright (c) 2026 Kritika. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package title

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

/*
TestList_RejectsNonNumericYear verifies that a malformed year filter is a
validation failure rather than a silently empty result set.
*/
func TestList_RejectsNonNumericYear(t *testing.T) {
	handler := NewHandler(newTestService(newFakeTitleRepository()))
	router := handler.Routes(chi.NewRouter())

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/?year=abc", nil))

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "year must be an integer")
}

/*
TestList_AcceptsNumericYear verifies the numeric filter still flows through.
*/
func TestList_AcceptsNumericYear(t *testing.T) {
	handler := NewHandler(newTestService(newFakeTitleRepository()))
	router := handler.Routes(chi.NewRouter())

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/?year=1994", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
}
