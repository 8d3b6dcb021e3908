package chat

import (
	"fmt"
	"strings"
)

// Unselected is the escalation context when no category is selected.
const Unselected = "未選択"

// Replies holds the canned texts shown by the bot.
type Replies struct {
	Greeting     string
	NameRequired string
	// UnknownName is a format string receiving the user's original input.
	UnknownName    string
	DetailRequired string
	TextRequired   string
	UnknownChoice  string
	NotFound       string
	Confirmation   string
	KeywordFooter  string
	ContextFormat  string
	DetailFormat   string
}

// DefaultReplies returns the standard Japanese texts for the given trigger phrase and HR contact.
func DefaultReplies(trigger, contact string) Replies {
	person := contact
	if _, after, ok := strings.Cut(contact, "の"); ok {
		person = after
	}
	return Replies{
		Greeting:       "こんにちは！下のカテゴリから知りたい内容を選んでください。",
		NameRequired:   "お名前を入力してください。",
		UnknownName:    "「%s」さんは社員名簿に見つかりませんでした。お名前をご確認ください。",
		DetailRequired: "お問い合わせ内容を入力してください。",
		TextRequired:   "質問を入力してください。",
		UnknownChoice:  "選択された項目が見つかりませんでした。",
		NotFound: "申し訳ありません。回答が見つかりませんでした。\n\n" +
			"直接担当者に聞きたい場合は、**「" + trigger + "」**ボタンを押してください。",
		Confirmation: "承知いたしました。" + contact + "にエスカレーション通知を送ります。\n" +
			person + "が確認次第、別途ご連絡いたします。",
		KeywordFooter: "\n\n---\n**関連キーワード:** ",
		ContextFormat: "%s (閲覧中カテゴリ: %s)",
		DetailFormat:  "\n詳細: %s",
	}
}

func (r Replies) answer(text, keywords string) string {
	return text + r.KeywordFooter + keywords
}

func (r Replies) unknownName(input string) string {
	return fmt.Sprintf(r.UnknownName, input)
}
