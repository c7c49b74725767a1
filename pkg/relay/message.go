package relay

import (
	"encoding/json"
)

// SystemPrompt is the fixed instruction sent ahead of every user message.
const SystemPrompt = "You are a linguistic assistant. Analyze the user's input, identify the single most important word (keyword), and provide only that word and its English translation. Output format must be strictly: 'OriginalWord - EnglishTranslation'. Do not include any other text."

// Reply texts shown to the user. The Japanese literals and prefixes are
// what the chat page expects, so they are part of the wire contract.
const (
	MsgEmptyInput        = "エラー: 入力が空です。"
	MsgMissingCredential = "エラー: APIキーが .env に設定されていません。"
	MsgUnexpected        = "予期せぬエラーが発生しました。"

	PrefixTransportError = "cURL Error: "
	PrefixUpstreamError  = "API Error: "
)

// incoming is the request body posted by the chat page.
type incoming struct {
	Message json.RawMessage `json:"message"`
}

// ParseMessage extracts the "message" string from a JSON request body.
// A malformed body, a missing field or a non-string value all yield "".
// The returned string is not trimmed.
func ParseMessage(rawBody []byte) string {
	var in incoming
	if err := json.Unmarshal(rawBody, &in); err != nil {
		return ""
	}
	if len(in.Message) == 0 {
		return ""
	}

	var message string
	if err := json.Unmarshal(in.Message, &message); err != nil {
		return ""
	}
	return message
}
