package domain

// PipelineSpec — набор именованных pipeline (содержимое YAML файла определений).
//
// Это "программа" для Releaser: какие шаги в каком порядке выполнить
// для каждой задачи командной строки (deploy_site, release, ...).
type PipelineSpec struct {
	// Pipelines — определения pipeline по имени.
	Pipelines map[string]PipelineDef `yaml:"pipelines" json:"pipelines"`
}

// PipelineDef — определение одного pipeline.
type PipelineDef struct {
	// Description — описание, показывается в `releaser list` и в help.
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	// Steps — упорядоченный список шагов.
	Steps []StepDef `yaml:"steps" json:"steps"`
}

// StepDef — определение шага в pipeline.
//
// Шаг задаётся либо через Kind (выполняемое действие),
// либо через Uses (вставка всех шагов другого pipeline на это место).
type StepDef struct {
	// Name — имя шага, уникальное в рамках pipeline.
	Name string `yaml:"name,omitempty" json:"name,omitempty"`

	// Uses — имя другого pipeline, шаги которого подставляются сюда.
	Uses string `yaml:"uses,omitempty" json:"uses,omitempty"`

	// Kind — тип действия: "local", "remote", "rsync", "tag_absent".
	Kind string `yaml:"kind,omitempty" json:"kind,omitempty"`

	// Mode — "once" или "parallel". Пустой режим заменяется режимом по умолчанию для Kind.
	Mode StepMode `yaml:"mode,omitempty" json:"mode,omitempty"`

	// With — параметры действия (Go templates).
	// Для local: run, dir
	// Для remote: run, dir
	// Для rsync: local_dir, remote_dir, delete
	// Для tag_absent: tag
	With map[string]string `yaml:"with,omitempty" json:"with,omitempty"`
}

// IsComposite возвращает true для шага-ссылки на другой pipeline.
func (s *StepDef) IsComposite() bool {
	return s.Uses != ""
}
