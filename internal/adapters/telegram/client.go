package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/randomtoy/oracle-go/internal/domain"
	"github.com/randomtoy/oracle-go/internal/ports"
)

const drawAgainLabel = "✦  d r a w   a g a i n  ✦"

// DrawAgainCallback is the callback data carried by the card button.
const DrawAgainCallback = "draw_again"

// Client implements ports.Messenger via the Telegram Bot API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	logger     *slog.Logger
}

func NewClient(httpClient *http.Client, token, baseURL string, logger *slog.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		logger:     logger,
	}
}

// APIError is a non-OK Bot API response.
type APIError struct {
	Code        int
	Description string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("telegram api error %d: %s", e.Code, e.Description)
}

func (c *Client) SendMessage(ctx context.Context, chatID int64, text string, opts ports.SendOptions) (ports.MessageRef, error) {
	req := sendMessageRequest{
		ChatID:      chatID,
		Text:        renderText(text, opts),
		ReplyMarkup: keyboard(opts),
	}
	if opts.Preformatted {
		req.ParseMode = "HTML"
	}

	var msg Message
	if err := c.call(ctx, "sendMessage", req, &msg); err != nil {
		return ports.MessageRef{}, fmt.Errorf("send message: %w", err)
	}
	return ports.MessageRef{ChatID: msg.Chat.ID, MessageID: msg.MessageID}, nil
}

func (c *Client) EditMessage(ctx context.Context, ref ports.MessageRef, text string, opts ports.SendOptions) error {
	req := editMessageRequest{
		ChatID:      ref.ChatID,
		MessageID:   ref.MessageID,
		Text:        renderText(text, opts),
		ReplyMarkup: keyboard(opts),
	}
	if opts.Preformatted {
		req.ParseMode = "HTML"
	}

	err := c.call(ctx, "editMessageText", req, nil)
	var apiErr *APIError
	if errors.As(err, &apiErr) && strings.Contains(apiErr.Description, "message is not modified") {
		return domain.ErrNotModified
	}
	if err != nil {
		return fmt.Errorf("edit message: %w", err)
	}
	return nil
}

func (c *Client) DeleteMessage(ctx context.Context, ref ports.MessageRef) error {
	req := deleteMessageRequest{ChatID: ref.ChatID, MessageID: ref.MessageID}

	err := c.call(ctx, "deleteMessage", req, nil)
	var apiErr *APIError
	if errors.As(err, &apiErr) && strings.Contains(apiErr.Description, "message to delete not found") {
		return domain.ErrMessageGone
	}
	if err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	return nil
}

func (c *Client) PresencePing(ctx context.Context, chatID int64, kind ports.PingKind) error {
	req := chatActionRequest{ChatID: chatID, Action: string(kind)}
	if err := c.call(ctx, "sendChatAction", req, nil); err != nil {
		return fmt.Errorf("presence ping: %w", err)
	}
	return nil
}

// SendPhoto uploads the file at path as a photo attachment.
func (c *Client) SendPhoto(ctx context.Context, chatID int64, path, caption string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open photo: %w", err)
	}
	defer file.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if err := mw.WriteField("chat_id", fmt.Sprintf("%d", chatID)); err != nil {
		return fmt.Errorf("write chat_id field: %w", err)
	}
	if caption != "" {
		if err := mw.WriteField("caption", caption); err != nil {
			return fmt.Errorf("write caption field: %w", err)
		}
	}
	part, err := mw.CreateFormFile("photo", filepath.Base(path))
	if err != nil {
		return fmt.Errorf("create photo part: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("copy photo: %w", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("close multipart body: %w", err)
	}

	url := c.methodURL("sendPhoto")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http call: %w", err)
	}
	defer resp.Body.Close()

	return decodeResponse(resp, nil)
}

// AnswerCallback acknowledges a button press, optionally with a toast.
func (c *Client) AnswerCallback(ctx context.Context, callbackID, text string) error {
	req := answerCallbackRequest{CallbackQueryID: callbackID, Text: text}
	if err := c.call(ctx, "answerCallbackQuery", req, nil); err != nil {
		return fmt.Errorf("answer callback: %w", err)
	}
	return nil
}

// GetUpdates long-polls for new updates after offset.
func (c *Client) GetUpdates(ctx context.Context, offset, timeoutSec int) ([]Update, error) {
	req := getUpdatesRequest{Offset: offset, Timeout: timeoutSec}

	var updates []Update
	if err := c.call(ctx, "getUpdates", req, &updates); err != nil {
		return nil, fmt.Errorf("get updates: %w", err)
	}
	return updates, nil
}

func (c *Client) call(ctx context.Context, method string, params, result any) error {
	body, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.methodURL(method), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http call: %w", err)
	}
	defer resp.Body.Close()

	return decodeResponse(resp, result)
}

func (c *Client) methodURL(method string) string {
	return c.baseURL + "/bot" + c.token + "/" + method
}

func decodeResponse(resp *http.Response, result any) error {
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var envelope apiResponse
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err)
	}
	if !envelope.OK {
		return &APIError{Code: envelope.ErrorCode, Description: envelope.Description}
	}
	if result != nil && len(envelope.Result) > 0 {
		if err := json.Unmarshal(envelope.Result, result); err != nil {
			return fmt.Errorf("decode result: %w", err)
		}
	}
	return nil
}

// renderText fences preformatted frames in <pre> so the client keeps the
// alignment; plain notices pass through untouched.
func renderText(text string, opts ports.SendOptions) string {
	if !opts.Preformatted {
		return text
	}
	return "<pre>" + htmlEscape(text) + "</pre>"
}

func htmlEscape(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}

func keyboard(opts ports.SendOptions) *inlineKeyboardMarkup {
	if !opts.Keyboard {
		return nil
	}
	return &inlineKeyboardMarkup{
		InlineKeyboard: [][]inlineKeyboardButton{
			{{Text: drawAgainLabel, CallbackData: DrawAgainCallback}},
		},
	}
}

var _ ports.Messenger = (*Client)(nil)
