package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	apperrors "stayd/pkg/errors"
)

// Client talks to the payment gateway. Two calls matter to the booking
// workflows: creating a hosted payment and verifying a completed
// transaction.
type Client interface {
	CreatePayment(ctx context.Context, req *CreatePaymentRequest) (*CreatePaymentResponse, error)
	VerifyTransaction(ctx context.Context, transactionID string) (*VerifyResponse, error)
}

// Meta is the metadata blob attached to a payment at initiation and
// returned verbatim on verification. It carries everything needed to
// rebuild the booking, so the reconciliation workflow never trusts
// caller-supplied fields. Rooms is a JSON-encoded array because the
// gateway only round-trips flat string values.
type Meta struct {
	BookingID    string `json:"booking_id"`
	HotelID      string `json:"hotel_id"`
	Phone        string `json:"phone,omitempty"`
	Address      string `json:"address,omitempty"`
	Guests       string `json:"guests"`
	CheckInDate  string `json:"check_in_date"`
	CheckOutDate string `json:"check_out_date"`
	Rooms        string `json:"rooms"`
}

type Customer struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phonenumber,omitempty"`
}

type Customization struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
}

type CreatePaymentRequest struct {
	TxRef         string        `json:"tx_ref"`
	Amount        string        `json:"amount"`
	Currency      string        `json:"currency"`
	RedirectURL   string        `json:"redirect_url"`
	Customer      Customer      `json:"customer"`
	Meta          Meta          `json:"meta"`
	Customization Customization `json:"customizations"`
}

type CreatePaymentResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    struct {
		Link string `json:"link"`
	} `json:"data"`
}

type VerifyResponse struct {
	Status  string     `json:"status"`
	Message string     `json:"message"`
	Data    VerifyData `json:"data"`
}

type VerifyData struct {
	ID       int64    `json:"id"`
	TxRef    string   `json:"tx_ref"`
	Status   string   `json:"status"`
	Amount   float64  `json:"amount"`
	Currency string   `json:"currency"`
	Customer Customer `json:"customer"`
	Meta     Meta     `json:"meta"`
}

type flutterwaveClient struct {
	baseURL    string
	secretKey  string
	httpClient *http.Client
}

func NewFlutterwaveClient(baseURL, secretKey string, timeout time.Duration) Client {
	return &flutterwaveClient{
		baseURL:   baseURL,
		secretKey: secretKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *flutterwaveClient) CreatePayment(ctx context.Context, req *CreatePaymentRequest) (*CreatePaymentResponse, error) {
	var resp CreatePaymentResponse
	if err := c.do(ctx, http.MethodPost, c.baseURL+"/payments", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *flutterwaveClient) VerifyTransaction(ctx context.Context, transactionID string) (*VerifyResponse, error) {
	url := fmt.Sprintf("%s/transactions/%s/verify", c.baseURL, transactionID)
	var resp VerifyResponse
	if err := c.do(ctx, http.MethodGet, url, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *flutterwaveClient) do(ctx context.Context, method, url string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return apperrors.Internal("Failed to encode gateway request", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return apperrors.Internal("Failed to build gateway request", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.Gateway("Payment gateway is unreachable", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return apperrors.Gateway("Failed to read gateway response", err)
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		return apperrors.Gateway(fmt.Sprintf("Payment gateway returned %d", resp.StatusCode), nil)
	}

	if err := json.Unmarshal(payload, out); err != nil {
		return apperrors.Gateway("Failed to decode gateway response", err)
	}
	return nil
}
