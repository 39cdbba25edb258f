package domain

// Client facing messages. The Spanish texts are the ones the MuuApp frontend
// already displays.
const (
	MsgInternal = "Internal server error"

	MsgLoggedIn          = "Logged in successfully"
	MsgEmailNotFound     = "El correo no ha sido registrado"
	MsgIncorrectPassword = "Contraseña Incorrecta"
	MsgMailSent          = "Mail send"
	MsgPasswordUpdated   = "Contraseña actualizada"
	MsgInvalidResetToken = "El enlace de recuperación no es válido o ha expirado"

	MsgUserCreated  = "User created successfully"
	MsgUserDeleted  = "User deleted successfully"
	MsgUserNotFound = "Usuario no encontrado"
	MsgEmailTaken   = "El email ya esta registrado"
	MsgNoToken      = "no token supplied"
	MsgInvalidToken = "invalid token"
)
