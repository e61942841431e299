// @title           Job Alert API
// @version         1.0
// @description     API портала вакансий: аутентификация с OTP по email и SMS, вакансии, отклики, уведомления.
// @host            localhost:8000
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import "jobalert_backend/internal/app"

func main() {
	app.Run()
}
