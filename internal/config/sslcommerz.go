package config

// SSLCommerzConfig regroupe les identifiants marchands et les URLs de retour
// du gateway de paiement par redirection.
type SSLCommerzConfig struct {
	StoreID       string
	StorePassword string
	InitiateURL   string
	Currency      string

	// Callbacks serveur (le gateway POST dessus après paiement)
	SuccessURL string
	FailURL    string
	CancelURL  string

	// Pages client vers lesquelles on redirige le navigateur du payeur
	ClientSuccessURL string
	ClientFailURL    string
	ClientCancelURL  string
}

// LoadSSLCommerz charge la configuration SSLCommerz depuis le .env,
// avec les valeurs sandbox par défaut.
func LoadSSLCommerz() SSLCommerzConfig {
	baseURL := Getenv("BASE_URL", "http://localhost:5000")
	clientURL := Getenv("CLIENT_URL", "http://localhost:5173")

	return SSLCommerzConfig{
		StoreID:       Getenv("SSLCZ_STORE_ID", "testd666859d69a4a5"),
		StorePassword: Getenv("SSLCZ_STORE_PASSWORD", "testd666859d69a4a5@ssl"),
		InitiateURL:   Getenv("SSLCZ_INITIATE_URL", "https://sandbox.sslcommerz.com/gwprocess/v4/api.php"),
		Currency:      Getenv("SSLCZ_CURRENCY", "EUR"),

		SuccessURL: baseURL + "/success-payment",
		FailURL:    baseURL + "/fail",
		CancelURL:  baseURL + "/cancel",

		ClientSuccessURL: clientURL + "/success",
		ClientFailURL:    clientURL + "/fail",
		ClientCancelURL:  clientURL + "/cancel",
	}
}
