// Package revalidate tells the frontend to rebuild pages after content
// changes.
package revalidate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	issuer       = "portfolio-backend"
	tokenTTL     = time.Minute
	requestLimit = 10 * time.Second
)

// Notifier is called with the resource name after every successful write.
type Notifier interface {
	Notify(resource string)
}

// Nop discards notifications.
type Nop struct{}

func (Nop) Notify(string) {}

// Client posts {"resource": name} to a revalidation endpoint, signed with a
// short-lived HS256 token.
type Client struct {
	url    string
	secret []byte
	client *http.Client
	now    func() time.Time
	wg     sync.WaitGroup
}

func New(url, secret string) *Client {
	return &Client{
		url:    url,
		secret: []byte(secret),
		client: &http.Client{Timeout: requestLimit},
		now:    time.Now,
	}
}

// Notify fires the request in the background. Failures are only logged.
func (c *Client) Notify(resource string) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), requestLimit)
		defer cancel()
		if err := c.Send(ctx, resource); err != nil {
			log.Printf("revalidate: %s: %v", resource, err)
		}
	}()
}

// Wait blocks until every notification in flight has finished.
func (c *Client) Wait() { c.wg.Wait() }

func (c *Client) Send(ctx context.Context, resource string) error {
	token, err := c.sign(resource)
	if err != nil {
		return err
	}
	body, err := json.Marshal(map[string]string{"resource": resource})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("error triggering revalidation: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("revalidation failed with status code: %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) sign(resource string) (string, error) {
	now := c.now()
	claims := jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   resource,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign revalidation token: %w", err)
	}
	return token, nil
}

// Verify parses a token produced by Client. Frontends written in Go can use
// it to check incoming requests.
func Verify(token, secret string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithIssuer(issuer), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	return claims, nil
}
