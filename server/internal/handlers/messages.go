package handlers

const (
	WelcomeMessage = "Welcome to FaceBoobs! Connect your wallet to start exploring creators."
	ErrorMessage   = "Oops! Something went wrong. Please try again."
)

func GenerateWelcomeMessage() string {
	return WelcomeMessage
}

func GenerateErrorMessage() string {
	return ErrorMessage
}
