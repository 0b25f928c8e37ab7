package openpayments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"crossrates/internal/domain"
)

// Client implements the payment-quote capability against Open Payments
// servers: public wallet-address lookup, grant negotiation at the auth
// server, incoming-payment creation and quote creation at the resource
// server. Every mutating request is signed with the sender wallet's key.
type Client struct {
	http *http.Client
}

func NewClient(httpClient *http.Client) *Client {
	return &Client{http: httpClient}
}

type walletAddressResponse struct {
	ID             string `json:"id"`
	AssetCode      string `json:"assetCode"`
	AssetScale     int    `json:"assetScale"`
	AuthServer     string `json:"authServer"`
	ResourceServer string `json:"resourceServer"`
}

// ResolveWalletAddress fetches the public metadata of a wallet endpoint.
func (c *Client) ResolveWalletAddress(ctx context.Context, walletURL string) (domain.WalletAddress, error) {
	target := domain.NormalizeWalletURL(walletURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return domain.WalletAddress{}, &domain.ProviderError{Stage: "wallet-address", URL: walletURL, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	var body walletAddressResponse
	if err = c.do(req, http.StatusOK, &body); err != nil {
		return domain.WalletAddress{}, &domain.ProviderError{Stage: "wallet-address", URL: walletURL, Err: err}
	}

	addr := domain.WalletAddress{
		ID:             body.ID,
		AssetCode:      body.AssetCode,
		AssetScale:     body.AssetScale,
		AuthServer:     body.AuthServer,
		ResourceServer: body.ResourceServer,
	}
	if addr.ID == "" {
		addr.ID = target
	}
	if addr.ResourceServer == "" {
		// Older test wallets serve resources from the wallet host itself
		addr.ResourceServer = serverBase(target)
	}
	return addr, nil
}

type grantAccess struct {
	Type    string   `json:"type"`
	Actions []string `json:"actions"`
}

type grantRequest struct {
	AccessToken struct {
		Access []grantAccess `json:"access"`
	} `json:"access_token"`
	Client string `json:"client"`
}

type grantResponse struct {
	AccessToken struct {
		Value string `json:"value"`
	} `json:"access_token"`
}

type incomingPaymentResponse struct {
	ID string `json:"id"`
}

type quoteResponse struct {
	ID            string        `json:"id"`
	DebitAmount   domain.Amount `json:"debitAmount"`
	ReceiveAmount domain.Amount `json:"receiveAmount"`
}

// RequestQuote runs the full quote flow for one (sender, receiver) pair:
// incoming-payment grant and creation on the receiver side, then quote grant
// and creation on the sender side. Any failure is wrapped into a
// ProviderError naming the stage that broke.
func (c *Client) RequestQuote(ctx context.Context, sender *domain.SenderWallet, senderAddr, receiverAddr domain.WalletAddress, debitMinorUnits int64) (domain.Quote, error) {
	signer := newRequestSigner(sender.KeyID, sender.PrivateKey)

	ipToken, err := c.requestGrant(ctx, signer, sender, receiverAddr.AuthServer,
		grantAccess{Type: "incoming-payment", Actions: []string{"create"}})
	if err != nil {
		return domain.Quote{}, &domain.ProviderError{Stage: "grant", URL: receiverAddr.AuthServer, Err: err}
	}

	ipURL := strings.TrimSuffix(receiverAddr.ResourceServer, "/") + "/incoming-payments"
	ipBody := map[string]any{
		"walletAddress": receiverAddr.ID,
		"metadata":      map[string]string{"description": "Cross-rate matrix probe"},
	}
	var ip incomingPaymentResponse
	if err = c.post(ctx, signer, ipURL, ipToken, ipBody, &ip); err != nil {
		return domain.Quote{}, &domain.ProviderError{Stage: "incoming-payment", URL: ipURL, Err: err}
	}

	quoteToken, err := c.requestGrant(ctx, signer, sender, senderAddr.AuthServer,
		grantAccess{Type: "quote", Actions: []string{"read", "create"}})
	if err != nil {
		return domain.Quote{}, &domain.ProviderError{Stage: "grant", URL: senderAddr.AuthServer, Err: err}
	}

	quoteURL := strings.TrimSuffix(senderAddr.ResourceServer, "/") + "/quotes"
	quoteBody := map[string]any{
		"receiver":      ip.ID,
		"walletAddress": senderAddr.ID,
		"method":        "ilp",
		"debitAmount": domain.Amount{
			Value:      strconv.FormatInt(debitMinorUnits, 10),
			AssetCode:  senderAddr.AssetCode,
			AssetScale: senderAddr.AssetScale,
		},
	}
	var q quoteResponse
	if err = c.post(ctx, signer, quoteURL, quoteToken, quoteBody, &q); err != nil {
		return domain.Quote{}, &domain.ProviderError{Stage: "quote", URL: quoteURL, Err: err}
	}

	return domain.Quote{ID: q.ID, DebitAmount: q.DebitAmount, ReceiveAmount: q.ReceiveAmount}, nil
}

func (c *Client) requestGrant(ctx context.Context, signer *requestSigner, sender *domain.SenderWallet, authServer string, access grantAccess) (string, error) {
	var body grantRequest
	body.AccessToken.Access = []grantAccess{access}
	body.Client = domain.NormalizeWalletURL(sender.URL)

	var grant grantResponse
	if err := c.post(ctx, signer, strings.TrimSuffix(authServer, "/"), "", body, &grant); err != nil {
		return "", err
	}
	if grant.AccessToken.Value == "" {
		return "", fmt.Errorf("auth server granted no access token")
	}
	return grant.AccessToken.Value, nil
}

func (c *Client) post(ctx context.Context, signer *requestSigner, url, token string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "GNAP "+token)
	}
	if err = signer.Sign(req, payload); err != nil {
		return fmt.Errorf("failed to sign request: %w", err)
	}

	return c.do(req, 0, out)
}

// do executes the request and decodes a 2xx JSON body into out. wantStatus 0
// accepts any 2xx.
func (c *Client) do(req *http.Request, wantStatus int, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	ok := resp.StatusCode >= 200 && resp.StatusCode < 300
	if wantStatus != 0 {
		ok = resp.StatusCode == wantStatus
	}
	if !ok {
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, readErrorMessage(resp))
	}

	if err = json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func readErrorMessage(resp *http.Response) string {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.Error != "" {
			return body.Error
		}
	}
	return resp.Status
}

func serverBase(walletURL string) string {
	u, err := url.Parse(walletURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return walletURL
	}
	return u.Scheme + "://" + u.Host
}
