// @title           Contacts API
// @version         1.0
// @description     Contacts with birthday search, JWT auth and email confirmation.
// @license.name    MIT
// @license.url     https://opensource.org/licenses/MIT
// @host            localhost:8000
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import "contacts_backend/internal/app"

func main() {
	app.Run()
}
