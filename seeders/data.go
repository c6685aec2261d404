package seeders

type roleSeed struct {
	Code string
	Name string
}

var rolesData = []roleSeed{
	{Code: "department_head", Name: "Руководитель отдела"},
	{Code: "finance_director", Name: "Финансовый директор"},
	{Code: "general_director", Name: "Генеральный директор"},
	{Code: "board_member", Name: "Член правления"},
	{Code: "manager", Name: "Менеджер"},
}

type userSeed struct {
	Fio      string
	Email    string
	Password string
	Roles    []string
}

var usersData = []userSeed{
	{Fio: "Админов Админ", Email: "admin@example.com", Password: "admin123", Roles: []string{"general_director"}},
	{Fio: "Менеджеров Мурод", Email: "manager@example.com", Password: "manager123", Roles: []string{"manager"}},
	{Fio: "Начальников Нек", Email: "head@example.com", Password: "head123", Roles: []string{"department_head"}},
	{Fio: "Финансистов Фируз", Email: "cfo@example.com", Password: "cfo123", Roles: []string{"finance_director"}},
	{Fio: "Правленцев Парвиз", Email: "board1@example.com", Password: "board123", Roles: []string{"board_member"}},
	{Fio: "Правленцева Парвина", Email: "board2@example.com", Password: "board123", Roles: []string{"board_member"}},
}

type stageSeed struct {
	Name          string
	Sequence      int
	RoleCode      string
	MinimumAmount float64
	MaximumAmount *float64
	IsFinal       bool
	ApprovalType  string
}

type flowSeed struct {
	Name         string
	Sequence     int
	DocumentType string
	CompanyID    uint64
	Stages       []stageSeed
}

func amount(v float64) *float64 { return &v }

// Демонстрационный маршрут закупок: до 10 тыс. достаточно руководителя
// отдела, до 100 тыс. добавляется финдиректор, свыше - генеральный и
// параллельное согласование правления.
var flowsData = []flowSeed{
	{
		Name:         "Закупки: базовый маршрут",
		Sequence:     10,
		DocumentType: "purchase",
		CompanyID:    1,
		Stages: []stageSeed{
			{Name: "Руководитель отдела", Sequence: 10, RoleCode: "department_head", MinimumAmount: 0, MaximumAmount: amount(10000), IsFinal: true, ApprovalType: "mandatory"},
			{Name: "Финансовый директор", Sequence: 20, RoleCode: "finance_director", MinimumAmount: 10000.01, MaximumAmount: amount(100000), IsFinal: true, ApprovalType: "mandatory"},
			{Name: "Генеральный директор", Sequence: 30, RoleCode: "general_director", MinimumAmount: 100000.01, MaximumAmount: nil, IsFinal: false, ApprovalType: "mandatory"},
			{Name: "Правление", Sequence: 40, RoleCode: "board_member", MinimumAmount: 100000.01, MaximumAmount: nil, IsFinal: true, ApprovalType: "parallel"},
		},
	},
	{
		Name:         "Продажи: базовый маршрут",
		Sequence:     10,
		DocumentType: "sale",
		CompanyID:    1,
		Stages: []stageSeed{
			{Name: "Менеджер продаж", Sequence: 10, RoleCode: "manager", MinimumAmount: 0, MaximumAmount: amount(50000), IsFinal: true, ApprovalType: "mandatory"},
			{Name: "Финансовый директор", Sequence: 20, RoleCode: "finance_director", MinimumAmount: 50000.01, MaximumAmount: nil, IsFinal: true, ApprovalType: "mandatory"},
		},
	},
}
