package resource_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/estoque/pkg/resource"
)

type item struct {
	ID   int
	Name string
}

var itemResource = resource.Func[item](func(i item) resource.Map {
	return resource.Map{"id": i.ID, "label": i.Name}
})

func TestResourceRespond(t *testing.T) {
	rec := httptest.NewRecorder()
	resource.New[item](itemResource, item{ID: 1, Name: "Mouse"}).
		WithMeta(resource.Map{"v": 1}).
		Respond(rec, http.StatusCreated)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"data":{"id":1,"label":"Mouse"},"meta":{"v":1}}`, rec.Body.String())
}

func TestCollectionRespond(t *testing.T) {
	rec := httptest.NewRecorder()
	resource.CollectionOf[item](itemResource, []item{{1, "a"}, {2, "b"}}).Respond(rec)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":[{"id":1,"label":"a"},{"id":2,"label":"b"}]}`, rec.Body.String())
}

func TestEmptyCollectionEncodesAsArray(t *testing.T) {
	b, err := json.Marshal(resource.CollectionOf[item](itemResource, nil))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(b))
}
