package consts

const (
	// IMConversationKey 会话实时事件频道前缀，后接会话 ID
	IMConversationKey = "im:conversation:"
)
