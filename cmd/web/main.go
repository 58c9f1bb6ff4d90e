// jobnest API: вакансии, подписки, уведомления и real-time канал /ws
package main

import "jobnest_backend/internal/app"

func main() {
	app.Run()
}
