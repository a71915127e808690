package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"
)

const defaultBaseURL = "http://localhost:8080"

// ApiClient handles requests to the billing API
type ApiClient struct {
	httpClient *http.Client
	BaseURL    string
}

// NewApiClient creates a new API client
func NewApiClient() *ApiClient {
	baseURL := os.Getenv("PAKCUISINE_API_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &ApiClient{
		httpClient: &http.Client{
			Timeout: time.Second * 10,
		},
		BaseURL: baseURL,
	}
}

// CheckHealth checks if the API is up and running
func (c *ApiClient) CheckHealth() (bool, error) {
	resp, err := c.httpClient.Get(c.BaseURL + "/health")
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("API health check failed with status code: %d", resp.StatusCode)
	}

	return true, nil
}

// MenuItem is a dish and its price in rupees
type MenuItem struct {
	Name  string `json:"name"`
	Price int    `json:"price"`
}

// Category is a named group of dishes
type Category struct {
	Name  string     `json:"name"`
	Items []MenuItem `json:"items"`
}

// Line is one dish in the current order
type Line struct {
	Category string `json:"category"`
	Item     string `json:"item"`
	Quantity int    `json:"quantity"`
}

// Order is the order being assembled on the server
type Order struct {
	OrderNumber int     `json:"order_number"`
	Lines       []Line  `json:"lines"`
	Summary     string  `json:"summary"`
	Subtotal    float64 `json:"subtotal"`
}

// Receipt is a rendered bill
type Receipt struct {
	OrderNumber int    `json:"order_number"`
	Text        string `json:"receipt"`
}

// HistoryEntry is one saved order
type HistoryEntry struct {
	OrderNumber  int            `json:"order_number"`
	Date         string         `json:"date"`
	CustomerName string         `json:"customer_name"`
	Items        map[string]int `json:"items"`
	Bill         string         `json:"bill"`
}

// apiError is the error body every handler returns
type apiError struct {
	Error string `json:"error"`
}

// GetMenu retrieves the catalog
func (c *ApiClient) GetMenu() ([]Category, error) {
	var menu []Category
	if err := c.do(http.MethodGet, "/api/v1/menu", nil, http.StatusOK, &menu); err != nil {
		return nil, err
	}
	return menu, nil
}

// GetOrder retrieves the order being assembled
func (c *ApiClient) GetOrder() (*Order, error) {
	var order Order
	if err := c.do(http.MethodGet, "/api/v1/order", nil, http.StatusOK, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// AddItem adds quantity of a dish to the order
func (c *ApiClient) AddItem(category, item string, quantity int) (*Order, error) {
	body := map[string]any{"category": category, "item": item, "quantity": quantity}

	var order Order
	if err := c.do(http.MethodPost, "/api/v1/order/items", body, http.StatusOK, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// RemoveItem drops a dish from the order
func (c *ApiClient) RemoveItem(category, item string) (*Order, error) {
	q := url.Values{"category": {category}, "item": {item}}

	var order Order
	if err := c.do(http.MethodDelete, "/api/v1/order/items?"+q.Encode(), nil, http.StatusOK, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// ClearOrder empties the order and keeps its number
func (c *ApiClient) ClearOrder() (*Order, error) {
	var order Order
	if err := c.do(http.MethodPost, "/api/v1/order/clear", nil, http.StatusOK, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// NewOrder starts the next order
func (c *ApiClient) NewOrder() (*Order, error) {
	var order Order
	if err := c.do(http.MethodPost, "/api/v1/order/new", nil, http.StatusOK, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// GenerateReceipt renders the bill for the current order
func (c *ApiClient) GenerateReceipt(discount int, tip float64, customer string) (*Receipt, error) {
	body := map[string]any{"discount": discount, "tip": tip, "customer_name": customer}

	var r Receipt
	if err := c.do(http.MethodPost, "/api/v1/order/receipt", body, http.StatusOK, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// SaveOrder archives a rendered bill
func (c *ApiClient) SaveOrder(bill, customer string) error {
	body := map[string]any{"bill": bill, "customer_name": customer}
	return c.do(http.MethodPost, "/api/v1/order/save", body, http.StatusCreated, nil)
}

// GetHistory retrieves every saved order
func (c *ApiClient) GetHistory() ([]HistoryEntry, error) {
	var entries []HistoryEntry
	if err := c.do(http.MethodGet, "/api/v1/history", nil, http.StatusOK, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (c *ApiClient) do(method, path string, body any, want int, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.BaseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode != want {
		var apiErr apiError
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s", apiErr.Error)
		}
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	return json.Unmarshal(data, out)
}
