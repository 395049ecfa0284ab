package consts

const (
	// MessageKindText 文本消息
	MessageKindText = "text"
	// MessageKindVoice 语音消息
	MessageKindVoice = "voice"
)

const (
	ConvTypeDirect int8 = 1
	ConvTypeGroup  int8 = 2
)

const (
	RoleAdmin  int8 = 1
	RoleMember int8 = 2
)

const (
	// DefaultLanguage 注册时未指定偏好语言的兜底值
	DefaultLanguage = "en"
)

const (
	// AudioObjectPrefix 语音对象在存储桶内的统一前缀
	AudioObjectPrefix = "voice/"
)
