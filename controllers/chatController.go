package controllers

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-resty/resty/v2"
	"github.com/nutcrate/nutcrate-api/initializers"
	"github.com/nutcrate/nutcrate-api/models"
)

const maxChatHistory = 20

const faqText = `Q: Is your peanut butter sugar-free?
A: Our Classic and Crunchy ranges are 100% sugar-free; the Chocolate range contains jaggery.
Q: Do you ship across India?
A: Yes. Orders above ₹1200 ship free; below that a flat ₹40 fee applies.
Q: How long does delivery take?
A: 3-7 business days depending on your pincode.
Q: Can I return an order?
A: Delivered orders can be returned within 5 days of delivery.`

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type productCard struct {
	Name     string  `json:"name"`
	Slug     string  `json:"slug"`
	Price    float64 `json:"price"`
	ImageURL string  `json:"imageUrl"`
}

// encodeTextChunk frames a model token for the browser stream.
func encodeTextChunk(text string) string {
	encoded, _ := json.Marshal(text)
	return "0:" + string(encoded) + "\n"
}

// encodeDataChunk frames a structured sideband payload (e.g. matched
// product cards) on the same stream as the free text.
func encodeDataChunk(v any) string {
	encoded, _ := json.Marshal(v)
	return "2:" + string(encoded) + "\n"
}

// matchProducts finds catalog products mentioned in the user's message so
// the UI can render cards inline with the answer.
func matchProducts(message string, products []models.Product) []productCard {
	lowered := strings.ToLower(message)
	var matched []productCard
	for _, p := range products {
		if p.Name != "" && strings.Contains(lowered, strings.ToLower(p.Name)) {
			matched = append(matched, productCard{
				Name:     p.Name,
				Slug:     p.Slug,
				Price:    p.Price,
				ImageURL: p.ImageURL,
			})
		}
	}
	return matched
}

func buildSystemPrompt(products []models.Product) string {
	var b strings.Builder
	b.WriteString("You are the shopping assistant for NutCrate, a peanut-butter storefront. ")
	b.WriteString("Answer questions using only the catalog and FAQ below. ")
	b.WriteString("Prices are in Indian rupees. If you do not know, say so.\n\nCatalog:\n")
	for _, p := range products {
		fmt.Fprintf(&b, "- %s (₹%.0f, %s, stock %d): %s\n", p.Name, p.Price, p.Category, p.Stock, p.Description)
	}
	b.WriteString("\nFAQ:\n")
	b.WriteString(faqText)
	return b.String()
}

// Chat proxies the conversation to the hosted model and streams the reply
// back chunk by chunk. Stateless: the full history arrives on every call
// and nothing is persisted.
func Chat(ctx *gin.Context) {
	var input struct {
		Messages []chatMessage `json:"messages" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&input); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(input.Messages) > maxChatHistory {
		input.Messages = input.Messages[len(input.Messages)-maxChatHistory:]
	}

	var products []models.Product
	if result := initializers.DB.Order("created_at desc").Limit(50).Find(&products); result.Error != nil {
		log.Println("Database error:", result.Error)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to load catalog context")
		return
	}

	messages := make([]chatMessage, 0, len(input.Messages)+1)
	messages = append(messages, chatMessage{Role: "system", Content: buildSystemPrompt(products)})
	messages = append(messages, input.Messages...)

	resp, err := resty.New().
		SetTimeout(2 * time.Minute).
		SetDoNotParseResponse(true).
		R().
		SetHeader("Authorization", "Bearer "+os.Getenv("LLM_API_KEY")).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]any{
			"model":    os.Getenv("LLM_MODEL"),
			"messages": messages,
			"stream":   true,
		}).
		Post(os.Getenv("LLM_API_URL") + "/chat/completions")
	if err != nil {
		log.Println("Model API error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to reach the assistant")
		return
	}
	defer resp.RawBody().Close()
	if resp.StatusCode() != http.StatusOK {
		log.Println("Model API returned status", resp.StatusCode())
		sendErrorResponse(ctx, http.StatusInternalServerError, "The assistant is unavailable")
		return
	}

	ctx.Header("Content-Type", "text/plain; charset=utf-8")
	ctx.Header("X-Accel-Buffering", "no")
	ctx.Status(http.StatusOK)

	// Matched product cards go out first so the UI can render them while
	// the answer is still streaming.
	lastUser := ""
	for i := len(input.Messages) - 1; i >= 0; i-- {
		if input.Messages[i].Role == "user" {
			lastUser = input.Messages[i].Content
			break
		}
	}
	if matched := matchProducts(lastUser, products); len(matched) > 0 {
		ctx.Writer.WriteString(encodeDataChunk(matched))
		ctx.Writer.Flush()
	}

	scanner := bufio.NewScanner(resp.RawBody())
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if payload == "" || payload == "[DONE]" {
			continue
		}

		var chunk struct {
			Choices []struct {
				Delta struct {
					Content string `json:"content"`
				} `json:"delta"`
			} `json:"choices"`
		}
		if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
			log.Println("Stream chunk parse error:", err)
			continue
		}
		if len(chunk.Choices) == 0 || chunk.Choices[0].Delta.Content == "" {
			continue
		}

		ctx.Writer.WriteString(encodeTextChunk(chunk.Choices[0].Delta.Content))
		ctx.Writer.Flush()
	}
	if err := scanner.Err(); err != nil {
		log.Println("Stream read error:", err)
	}
}
