package handlers

import "time"

const (
	ErrInvalidFormData       = "Dados do formulário inválidos"
	ErrInvalidCSRF           = "Sessão expirada, recarregue a página"
	ErrTooManyRequests       = "Muitas tentativas, aguarde um minuto"
	ErrInternalServerError   = "Erro interno do servidor"
	ErrGiftCatalogLoadFailed = "Não foi possível carregar a lista de presentes"
	ErrCartFull              = "O carrinho está cheio, finalize ou remova alguns presentes"
)

const (
	// SuccessRedirectDelay is how long the success page waits before going home
	SuccessRedirectDelay = 3 * time.Second
	// FailureRedirectDelay is how long the failure page waits before going home
	FailureRedirectDelay = 5 * time.Second

	// pixQRSize is the QR code edge in pixels
	pixQRSize = 256
)
