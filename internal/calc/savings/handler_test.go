package savings

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Caldera/internal/calc"
	"Caldera/internal/calc/units"
	"Caldera/internal/catalog"
)

func serve(t *testing.T, h *Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.Calc(rec, httptest.NewRequest(http.MethodPost, "/tools/sizing/calc", bytes.NewBufferString(body)))
	return rec
}

func TestHandlerUsesStoredCatalog(t *testing.T) {
	store := catalog.NewMemory()
	require.NoError(t, store.ReplaceCatalog(context.Background(), catalog.KindHeatPump, testCatalog()))
	h := &Handler{Env: calc.NewEnv(units.Default(), store, nil, nil)}

	rec := serve(t, h, `{"user_type":"restaurant","daily_liters":2500,"operating_hours":16,"inlet_temp_c":25,"target_temp_c":55}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "hp-r32-6", res.System.Equipment.ID)
}

func TestHandlerInlineCatalogOverridesStore(t *testing.T) {
	h := &Handler{Env: calc.NewEnv(units.Default(), nil, nil, nil)}
	rec := serve(t, h, `{"daily_liters":500,"operating_hours":10,"inlet_temp_c":15,"target_temp_c":50,
		"catalog":[{"SKU":"inline-1","kW":"4,5","COP":"3.9","Price_USD":1700}]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"inline-1"`)
}

func TestHandlerErrors(t *testing.T) {
	h := &Handler{Env: calc.NewEnv(units.Default(), nil, nil, nil)}

	rec := serve(t, h, `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(t, h, `{"daily_liters":-5,"inlet_temp_c":15,"target_temp_c":50}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "daily_liters")

	rec = serve(t, h, `{"daily_liters":500,"operating_hours":10,"inlet_temp_c":15,"target_temp_c":50}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), CodeNoQualifyingEquipment)

	rec = serve(t, h, `{"daily_liters":500,"inlet_temp_c":15,"target_temp_c":50,"catalog":[{"kW":4}]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
