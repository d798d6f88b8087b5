package analysis

import (
	"fmt"
	"strings"
)

// analysisPromptTemplate asks for a market analysis of the window text
// and a machine-readable JSON tail. The response is free to wrap the
// JSON in a fence or not; the parser handles both.
const analysisPromptTemplate = `分析以下%d小时内的财经新闻，给出:

1. 当日消息面整体情况，包括利好和利空消息，以及对相关行业和板块的影响
2. 当日的政策面分析，有哪些重大的方向和板块需要关注，哪些行业/板块会受政策影响进行调整
3. 对第二天行情的预测，看涨哪些板块，看跌哪些板块，哪些龙头股值得关注，哪些风险需要重点关注
%s
新闻内容:
%s

最后按照json的格式返回：
` + "```json" + `
{
    "news_impact": "当日消息面分析",
    "policy_impact": "当日政策面分析",
    "market_prediction": "对第二天行情的预测"%s
}
` + "```"

const companyInstruction = "4. 对以下重点关注公司分别给出影响分析和走势预测: %s\n"

const companyJSONField = `,
    "company_predictions": [{"company": "公司名称", "report": "该公司的分析与预测"}]`

// BuildPrompt renders the analysis prompt for one window. When focused
// companies are present, the prompt asks for per-company predictions
// and extends the requested JSON shape accordingly.
func BuildPrompt(windowText string, hours int, focusedCompanies []string) string {
	instruction := ""
	jsonField := ""
	if len(focusedCompanies) > 0 {
		instruction = fmt.Sprintf(companyInstruction, strings.Join(focusedCompanies, "、"))
		jsonField = companyJSONField
	}
	return fmt.Sprintf(analysisPromptTemplate, hours, instruction, windowText, jsonField)
}
