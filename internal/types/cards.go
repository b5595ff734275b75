package types

import (
	"encoding/json"
	"fmt"
)

// CardType discriminates the presentation card union.
type CardType string

const (
	CardText  CardType = "text"
	CardChart CardType = "chart"
	CardTable CardType = "table"
	CardMixed CardType = "mixed"
)

type TextContent struct {
	Body    string `json:"body"`
	IsError *bool  `json:"is_error,omitempty"`
}

type ChartDataPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

type ChartContent struct {
	ChartType string           `json:"chart_type"`
	Title     string           `json:"title"`
	Data      []ChartDataPoint `json:"data"`
	Caption   *string          `json:"caption,omitempty"`
}

type TableContent struct {
	Title   string     `json:"title"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

type MixedContent struct {
	Body  string       `json:"body"`
	Chart ChartContent `json:"chart"`
}

// ResponseCard is one unit of presentation output. Exactly one of the
// content pointers is set, matching Type. On the wire it is the
// {"type": ..., "content": {...}} envelope the UI renders.
type ResponseCard struct {
	Type  CardType
	Text  *TextContent
	Chart *ChartContent
	Table *TableContent
	Mixed *MixedContent
}

// ResponseData is the sole return type of the query pipeline. Cards render
// top to bottom and there is always at least one.
type ResponseData struct {
	Cards []ResponseCard `json:"cards"`
}

type cardEnvelope struct {
	Type    CardType        `json:"type"`
	Content json.RawMessage `json:"content"`
}

func (c ResponseCard) MarshalJSON() ([]byte, error) {
	var content any
	switch c.Type {
	case CardText:
		content = c.Text
	case CardChart:
		content = c.Chart
	case CardTable:
		content = c.Table
	case CardMixed:
		content = c.Mixed
	default:
		return nil, fmt.Errorf("unknown card type %q", c.Type)
	}
	raw, err := json.Marshal(content)
	if err != nil {
		return nil, err
	}
	return json.Marshal(cardEnvelope{Type: c.Type, Content: raw})
}

func (c *ResponseCard) UnmarshalJSON(data []byte) error {
	var env cardEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}
	*c = ResponseCard{Type: env.Type}
	switch env.Type {
	case CardText:
		c.Text = &TextContent{}
		return json.Unmarshal(env.Content, c.Text)
	case CardChart:
		c.Chart = &ChartContent{}
		return json.Unmarshal(env.Content, c.Chart)
	case CardTable:
		c.Table = &TableContent{}
		return json.Unmarshal(env.Content, c.Table)
	case CardMixed:
		c.Mixed = &MixedContent{}
		return json.Unmarshal(env.Content, c.Mixed)
	default:
		return fmt.Errorf("unknown card type %q", env.Type)
	}
}

// NewTextCard builds a text card. The error flag is always serialized so the
// UI can distinguish "no flag" from "not an error".
func NewTextCard(body string, isError bool) ResponseCard {
	return ResponseCard{
		Type: CardText,
		Text: &TextContent{Body: body, IsError: &isError},
	}
}

// Summary is the short textual form of a card recorded as the assistant's
// conversation turn.
func (c ResponseCard) Summary() string {
	switch c.Type {
	case CardText:
		return c.Text.Body
	case CardChart:
		return fmt.Sprintf("[Chart: %s]", c.Chart.Title)
	case CardTable:
		return fmt.Sprintf("[Table: %s]", c.Table.Title)
	case CardMixed:
		return c.Mixed.Body
	}
	return ""
}
