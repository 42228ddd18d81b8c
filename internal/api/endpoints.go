package api

const (
	// Auth
	LoginEndpoint    = "/auth/login"
	RegisterEndpoint = "/auth/register"
	RefreshEndpoint  = "/auth/refresh"
	LogoutEndpoint   = "/auth/logout"

	// Profile
	MeEndpoint = "/users/me"

	// Chat
	ChatsEndpoint    = "/chats"
	MessagesEndpoint = "/chats/%s/messages"
	ReadEndpoint     = "/chats/%s/read"

	// Store
	PurchaseGemsEndpoint    = "/store/gems/purchase"
	ActivateBoosterEndpoint = "/store/boosters/activate"
	SendLetterEndpoint      = "/store/letters/send"
	ClaimReferralEndpoint   = "/store/referral/claim"

	// Headers
	AuthorizationHeader = "Authorization"
	ContentTypeHeader   = "Content-Type"
	ContentTypeJSON     = "application/json"
)
