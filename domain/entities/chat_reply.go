package entities

// ChatReplyKind discriminates the shapes a chat proxy response can take.
type ChatReplyKind int

const (
	ChatReplyEmpty ChatReplyKind = iota
	ChatReplyText
	ChatReplyTextAndImage
)

// ChatReply is a tagged variant for AI proxy responses. The upstream API
// sometimes returns a bare string and sometimes a text+image payload;
// callers switch on Kind instead of type-probing the raw response.
type ChatReply struct {
	Kind     ChatReplyKind
	Text     string
	ImageURL string
}

func TextReply(text string) ChatReply {
	return ChatReply{Kind: ChatReplyText, Text: text}
}

func TextAndImageReply(text, imageURL string) ChatReply {
	return ChatReply{Kind: ChatReplyTextAndImage, Text: text, ImageURL: imageURL}
}

func EmptyReply() ChatReply {
	return ChatReply{Kind: ChatReplyEmpty}
}
