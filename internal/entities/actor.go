package entities

// Actor - инициатор перехода. Набор ролей резолвится вызывающим слоем
// (middleware + сервис авторизации) и передаётся в машину состояний
// явным параметром: ядро никогда не запрашивает сессию само.
type Actor struct {
	ID    uint64
	Roles []string
}

func (a Actor) HasRole(code string) bool {
	for _, r := range a.Roles {
		if r == code {
			return true
		}
	}
	return false
}
