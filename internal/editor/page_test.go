package editor_test

import (
	"errors"
	"testing"

	"katalog/internal/editor"
	"katalog/internal/messages"
	"katalog/internal/models"
	"katalog/internal/repositories"
	"katalog/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCatalog is a mock implementation of editor.Catalog
type MockCatalog struct {
	mock.Mock
}

func (m *MockCatalog) Add(name string, price float64) (models.Product, error) {
	args := m.Called(name, price)
	return args.Get(0).(models.Product), args.Error(1)
}

func (m *MockCatalog) ToggleStock(id int) (bool, error) {
	args := m.Called(id)
	return args.Bool(0), args.Error(1)
}

func (m *MockCatalog) Remove(id int) (bool, error) {
	args := m.Called(id)
	return args.Bool(0), args.Error(1)
}

func (m *MockCatalog) List() ([]models.Product, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Product), args.Error(1)
}

func newPage() (*editor.Page, *services.CatalogService) {
	catalog := services.NewCatalogService("test", repositories.NewMemoryCatalogRepository(), nil, nil)
	return editor.NewPage(catalog, messages.English), catalog
}

func TestPage_SubmitRejectsInvalidInput(t *testing.T) {
	testCases := []struct {
		name          string
		event         editor.SubmitEvent
		expNameError  string
		expPriceError string
	}{
		{name: "empty name", event: editor.SubmitEvent{Name: "", Price: "10"}, expNameError: messages.English.NameRequired},
		{name: "whitespace name", event: editor.SubmitEvent{Name: "   ", Price: "10"}, expNameError: messages.English.NameRequired},
		{name: "empty name wins over bad price", event: editor.SubmitEvent{Name: "", Price: "abc"}, expNameError: messages.English.NameRequired},
		{name: "empty price", event: editor.SubmitEvent{Name: "Chair", Price: ""}, expPriceError: messages.English.PriceInvalid},
		{name: "blank price", event: editor.SubmitEvent{Name: "Chair", Price: "  "}, expPriceError: messages.English.PriceInvalid},
		{name: "text price", event: editor.SubmitEvent{Name: "Chair", Price: "abc"}, expPriceError: messages.English.PriceInvalid},
		{name: "infinite price", event: editor.SubmitEvent{Name: "Chair", Price: "Inf"}, expPriceError: messages.English.PriceInvalid},
		{name: "NaN price", event: editor.SubmitEvent{Name: "Chair", Price: "NaN"}, expPriceError: messages.English.PriceInvalid},
		{name: "zero price", event: editor.SubmitEvent{Name: "Chair", Price: "0"}, expPriceError: messages.English.PricePositive},
		{name: "negative price", event: editor.SubmitEvent{Name: "Chair", Price: "-5"}, expPriceError: messages.English.PricePositive},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			page, catalog := newPage()
			// when
			added, err := page.Submit(tc.event)
			// then
			require.NoError(t, err)
			assert.False(t, added)

			products, err := catalog.List()
			require.NoError(t, err)
			assert.Empty(t, products)

			view, err := page.Render()
			require.NoError(t, err)
			assert.Equal(t, tc.expNameError, view.NameError)
			assert.Equal(t, tc.expPriceError, view.PriceError)
			assert.Equal(t, tc.event.Name, view.NameValue, "fields are kept as typed")
			assert.Equal(t, tc.event.Price, view.PriceValue, "fields are kept as typed")
		})
	}
}

func TestPage_SubmitAddsTrimmedProductAndClearsFields(t *testing.T) {
	page, catalog := newPage()

	added, err := page.Submit(editor.SubmitEvent{Name: "  Chair ", Price: " 49.99 "})
	require.NoError(t, err)
	assert.True(t, added)

	products, err := catalog.List()
	require.NoError(t, err)
	assert.Equal(t, []models.Product{{ID: 1, Name: "Chair", Price: 49.99, InStock: true}}, products)

	view, err := page.Render()
	require.NoError(t, err)
	assert.Empty(t, view.NameValue)
	assert.Empty(t, view.PriceValue)
}

func TestPage_MessagesAreNotClearedBySuccess(t *testing.T) {
	page, _ := newPage()

	_, err := page.Submit(editor.SubmitEvent{Name: "", Price: "1"})
	require.NoError(t, err)
	_, err = page.Submit(editor.SubmitEvent{Name: "Chair", Price: "-1"})
	require.NoError(t, err)
	added, err := page.Submit(editor.SubmitEvent{Name: "Chair", Price: "1"})
	require.NoError(t, err)
	require.True(t, added)

	view, err := page.Render()
	require.NoError(t, err)
	assert.Equal(t, messages.English.NameRequired, view.NameError)
	assert.Equal(t, messages.English.PricePositive, view.PriceError)
}

func TestPage_SubmitPropagatesStoreError(t *testing.T) {
	catalog := new(MockCatalog)
	page := editor.NewPage(catalog, messages.English)

	catalog.On("Add", "Chair", 10.0).Return(models.Product{}, errors.New("database error")).Once()

	added, err := page.Submit(editor.SubmitEvent{Name: "Chair", Price: "10"})
	assert.Error(t, err)
	assert.False(t, added)
	catalog.AssertExpectations(t)
}

func TestPage_Click(t *testing.T) {
	testCases := []struct {
		name       string
		event      editor.ClickEvent
		expChanged bool
		expStock   []bool
	}{
		{
			name:       "toggle first product",
			event:      editor.ClickEvent{InItem: true, ProductID: "1", Action: editor.ActionToggleStock},
			expChanged: true,
			expStock:   []bool{false, true},
		},
		{
			name:       "click outside any item",
			event:      editor.ClickEvent{InItem: false, ProductID: "1", Action: editor.ActionToggleStock},
			expChanged: false,
			expStock:   []bool{true, true},
		},
		{
			name:       "item without identifier",
			event:      editor.ClickEvent{InItem: true, ProductID: "", Action: editor.ActionToggleStock},
			expChanged: false,
			expStock:   []bool{true, true},
		},
		{
			name:       "garbage identifier",
			event:      editor.ClickEvent{InItem: true, ProductID: "x1", Action: editor.ActionToggleStock},
			expChanged: false,
			expStock:   []bool{true, true},
		},
		{
			name:       "unknown identifier",
			event:      editor.ClickEvent{InItem: true, ProductID: "99", Action: editor.ActionToggleStock},
			expChanged: false,
			expStock:   []bool{true, true},
		},
		{
			name:       "no action",
			event:      editor.ClickEvent{InItem: true, ProductID: "1", Action: ""},
			expChanged: false,
			expStock:   []bool{true, true},
		},
		{
			name:       "delete second product",
			event:      editor.ClickEvent{InItem: true, ProductID: "2", Action: editor.ActionDelete},
			expChanged: true,
			expStock:   []bool{true},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			page, catalog := newPage()
			_, err := page.Submit(editor.SubmitEvent{Name: "A", Price: "10"})
			require.NoError(t, err)
			_, err = page.Submit(editor.SubmitEvent{Name: "B", Price: "20"})
			require.NoError(t, err)
			// when
			changed, err := page.Click(tc.event)
			// then
			require.NoError(t, err)
			assert.Equal(t, tc.expChanged, changed)

			products, err := catalog.List()
			require.NoError(t, err)
			stock := make([]bool, len(products))
			for i, p := range products {
				stock[i] = p.InStock
			}
			assert.Equal(t, tc.expStock, stock)
		})
	}
}

func TestPage_RenderIsIdempotent(t *testing.T) {
	page, _ := newPage()
	for _, ev := range []editor.SubmitEvent{{Name: "A", Price: "1"}, {Name: "B", Price: "2"}, {Name: "C", Price: "3"}} {
		_, err := page.Submit(ev)
		require.NoError(t, err)
	}

	first, err := page.Render()
	require.NoError(t, err)
	second, err := page.Render()
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, second.Items, 3)
}

func TestPage_RenderEmptyCatalog(t *testing.T) {
	page, _ := newPage()

	view, err := page.Render()
	require.NoError(t, err)
	assert.True(t, view.EmptyNoticeVisible)
	assert.Empty(t, view.Items)
}

func TestPage_RenderPropagatesStoreError(t *testing.T) {
	catalog := new(MockCatalog)
	page := editor.NewPage(catalog, messages.English)
	catalog.On("List").Return(nil, errors.New("database error")).Once()

	_, err := page.Render()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "database error")
}

func TestPage_AddChairScenario(t *testing.T) {
	page, catalog := newPage()

	_, err := page.Submit(editor.SubmitEvent{Name: "Chair", Price: "49.99"})
	require.NoError(t, err)

	products, err := catalog.List()
	require.NoError(t, err)
	assert.Equal(t, []models.Product{{ID: 1, Name: "Chair", Price: 49.99, InStock: true}}, products)

	view, err := page.Render()
	require.NoError(t, err)
	assert.False(t, view.EmptyNoticeVisible)
	require.Len(t, view.Items, 1)
	assert.Equal(t, "49.99", view.Items[0].Price)
	assert.Equal(t, "in stock", view.Items[0].StockLabel)
}
