package health

type Input struct{}

type Output struct {
	Body Response
}

// Response — состояние сервера. Time позволяет клиенту оценить
// расхождение часов при проверке сроков токенов.
type Response struct {
	Status  string `json:"status" example:"OK" doc:"Состояние сервиса"`
	Version string `json:"version" example:"1.0.0" doc:"Версия API"`
	Uptime  string `json:"uptime" example:"1h2m3s" doc:"Время с момента запуска"`
	Time    string `json:"time" format:"date-time" doc:"Текущее время сервера"`
}
